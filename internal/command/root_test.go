package command

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandVersion(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--version")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "recall version test") {
		t.Fatalf("expected version output, got %q", output)
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, want := range []string{"suggests it back", "Available Commands", "history"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in help output, got %q", want, output)
		}
	}
}

func TestUnknownStoreIsAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd("test")

	output, err := executeCommand(cmd, "--store", "redis", "history", "list")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(output, "Error: unknown store") {
		t.Fatalf("expected error output, got %q", output)
	}
}
