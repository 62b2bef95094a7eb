package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func confirmPrompt(input io.Reader, output io.Writer, prompt string) (bool, error) {
	fmt.Fprint(output, prompt)
	reader := bufio.NewReader(input)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}
