package rag

import "testing"

func TestCleanCollapsesWhitespace(t *testing.T) {
	got := Clean("  hello\t\tworld\n\nagain  ")
	want := "hello world again"
	if got != want {
		t.Fatalf("Clean() = %q, want %q", got, want)
	}
}

func TestCleanStripsPDFArtifacts(t *testing.T) {
	got := Clean("%PDF-1.4 1 0 endobj hello world")
	if got != "hello world" {
		t.Fatalf("Clean() = %q, want %q", got, "hello world")
	}

	got = Clean("obj stream data endobj report text")
	if got != "report text" {
		t.Fatalf("Clean() = %q, want %q", got, "report text")
	}
}

func TestCleanEmptyInput(t *testing.T) {
	if got := Clean("   \n\t  "); got != "" {
		t.Fatalf("Clean(whitespace) = %q, want empty", got)
	}
}
