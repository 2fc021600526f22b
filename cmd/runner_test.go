package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/avrelia/mdexport/internal/shared"
	mdtest "github.com/avrelia/mdexport/internal/testing"
)

func TestExportPathUsesConfiguredDir(t *testing.T) {
	runner := NewRunner(RunnerOpts{
		Config: &shared.Config{Export: shared.ExportConfig{Dir: "out"}},
		Logger: shared.NewLogger(&mdtest.FWriter{}),
	})

	if got := runner.exportPath("manga_library.csv"); got != "out/manga_library.csv" {
		t.Errorf("exportPath = %q", got)
	}
}

func TestExportPathDefaultDir(t *testing.T) {
	runner := NewRunner(RunnerOpts{
		Config: &shared.Config{},
		Logger: shared.NewLogger(&mdtest.FWriter{}),
	})

	if got := runner.exportPath("manga_library.xml"); got != "export/manga_library.xml" {
		t.Errorf("exportPath = %q", got)
	}
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	runner := NewRunner(RunnerOpts{
		Config: &shared.Config{},
		Logger: shared.NewLogger(&mdtest.FWriter{}),
		Output: &out,
	})

	if err := runner.writeJSON(map[string]int{"written": 3}, false); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	if got := out.String(); got != "{\"written\":3}\n" {
		t.Errorf("output = %q", got)
	}
}

func TestWriteJSONFailingWriter(t *testing.T) {
	runner := NewRunner(RunnerOpts{
		Config: &shared.Config{},
		Logger: shared.NewLogger(&mdtest.FWriter{}),
		Output: &mdtest.FWriter{},
	})

	if err := runner.writeJSON("data", false); err == nil {
		t.Error("expected write error")
	}
}

func TestTerminalPrompter(t *testing.T) {
	var out bytes.Buffer
	prompter := newTerminalPrompter(strings.NewReader("alice\nhunter2\n"), &out)

	username, password, err := prompter.Credentials()
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if username != "alice" || password != "hunter2" {
		t.Errorf("credentials = %q / %q", username, password)
	}
	if !strings.Contains(out.String(), "MangaDex username:") {
		t.Errorf("prompt text = %q", out.String())
	}
}

func TestTerminalPrompterCode(t *testing.T) {
	prompter := newTerminalPrompter(strings.NewReader("  auth-code \n"), &bytes.Buffer{})

	code, err := prompter.Code()
	if err != nil {
		t.Fatalf("prompt failed: %v", err)
	}
	if code != "auth-code" {
		t.Errorf("code = %q", code)
	}
}
