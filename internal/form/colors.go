package form

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleColor   = lipgloss.Color("111")
	sectionColor = lipgloss.Color("183")
	labelColor   = lipgloss.Color("252")
	hintColor    = lipgloss.Color("242")
	statusColor  = lipgloss.Color("245")
	textColor    = lipgloss.Color("255")
	blurText     = lipgloss.Color("248")
	caretColor   = lipgloss.Color("36")
	inputBg      = lipgloss.Color("236")
)

func applyAreaStyles(input *textarea.Model) {
	input.FocusedStyle.Base = lipgloss.NewStyle().Foreground(textColor).Background(inputBg)
	input.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textColor).Background(inputBg)
	input.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(caretColor).Background(inputBg)
	input.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
	input.BlurredStyle.Base = lipgloss.NewStyle().Foreground(blurText).Background(inputBg)
	input.BlurredStyle.Text = lipgloss.NewStyle().Foreground(blurText).Background(inputBg)
	input.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(caretColor).Background(inputBg)
	input.BlurredStyle.CursorLine = lipgloss.NewStyle().Background(inputBg)
}

func applyInputStyles(input *textinput.Model, focused bool) {
	color := blurText
	if focused {
		color = textColor
	}
	input.PromptStyle = lipgloss.NewStyle().Foreground(caretColor)
	input.TextStyle = lipgloss.NewStyle().Foreground(color)
}
