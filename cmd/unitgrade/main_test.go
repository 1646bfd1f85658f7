// Package main provides tests for the unitgrade CLI.
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/unitgrade/internal/cli"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "unitgrade") {
		t.Errorf("version output should contain 'unitgrade', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}
	for _, expected := range []string{"evaluate", "preview", "units", "batch", "repl", "serve"} {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(testdataDir(t), "cases.yaml")
	output, err := execute(t, "batch", path, "-o", "markdown")
	if err != nil {
		t.Fatalf("batch command error = %v\n%s", err, output)
	}
	if !strings.Contains(output, "- **Mismatched**: 0") {
		t.Errorf("batch output should report no mismatches, got: %s", output)
	}
}

func TestEvaluateCommand(t *testing.T) {
	output, err := execute(t, "evaluate", "3*kilometre", "metre", "-p", "comparison=dimensions", "-o", "markdown")
	if err != nil {
		t.Fatalf("evaluate command error = %v", err)
	}
	if !strings.Contains(output, "correct") {
		t.Errorf("evaluate output should contain 'correct', got: %s", output)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			if _, err := execute(t, "completion", shell); err != nil {
				t.Errorf("completion %s command error = %v", shell, err)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := execute(t, "unknown-command"); err == nil {
		t.Error("unknown command should return an error")
	}
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
