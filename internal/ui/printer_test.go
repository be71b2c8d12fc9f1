package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Info("Creating worktree at %s", "/w")
	p.Warn("post_create hook failed: %s", "exit status 1")
	p.Success("done")

	want := "Creating worktree at /w\nWarning: post_create hook failed: exit status 1\n✓ done\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected no escape sequences when not writing to a terminal")
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
