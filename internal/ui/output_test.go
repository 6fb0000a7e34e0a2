package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestMessagePrefixes(t *testing.T) {
	var buf bytes.Buffer
	u := NewWithWriter(&buf)

	u.Info("backing up")
	u.Successf("patched %d files", 2)
	u.Warning("read-only")
	u.Errorf("failed: %s", "boom")

	want := "[INFO] backing up\n[✓] patched 2 files\n[WARNING] read-only\n[ERROR] failed: boom\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestItem(t *testing.T) {
	var buf bytes.Buffer
	u := NewWithWriter(&buf)

	u.Item(true, "~/.bashrc")
	u.Item(false, "~/.zshrc")

	if got := buf.String(); got != "  ✓ ~/.bashrc\n  ✗ ~/.zshrc\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	u := NewWithWriter(&buf)

	u.Preview("append", "")
	if buf.Len() != 0 {
		t.Errorf("Preview() of empty text printed %q", buf.String())
	}

	u.Preview("append", "export A=1\nsource ~/.tool/env\n")
	got := buf.String()
	for _, want := range []string{"  append:\n", "    + export A=1\n", "    + source ~/.tool/env\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("Preview() output %q missing %q", got, want)
		}
	}
	if strings.Count(got, "+") != 2 {
		t.Errorf("Preview() printed a trailing empty line: %q", got)
	}
}

func TestNonInteractivePrompts(t *testing.T) {
	u := NewWithWriter(&bytes.Buffer{})
	u.SetNonInteractive(true)

	ok, err := u.PromptYesNo("Continue?", true)
	if err != nil || !ok {
		t.Errorf("PromptYesNo() = %v, %v, want true, nil", ok, err)
	}

	v, err := u.PromptInput("Snippet", "source ~/.tool/env")
	if err != nil || v != "source ~/.tool/env" {
		t.Errorf("PromptInput() = %q, %v", v, err)
	}

	idx, err := u.PromptMultiSelect("Files", []string{"a", "b", "c"})
	if err != nil || len(idx) != 3 {
		t.Errorf("PromptMultiSelect() = %v, %v, want all indices", idx, err)
	}

	if _, err := u.PromptSelect("Action", []string{"a"}); err == nil {
		t.Error("PromptSelect() in non-interactive mode should fail")
	}
}
