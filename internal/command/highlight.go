package command

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/mattn/go-isatty"
)

const chromaStyleName = "dracula"

// colorEnabled reports whether out is a terminal that accepts color.
func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// highlightJSON colors JSON for a 256-color terminal. On any failure the
// input is returned unchanged.
func highlightJSON(code string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return code
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return code
	}

	style := styles.Get(chromaStyleName)
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	if err := formatters.TTY256.Format(&buf, style, iterator); err != nil {
		return code
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n") && strings.HasSuffix(code, "\n") {
		out += "\n"
	}
	return out
}
