package export

import (
	"errors"
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got, err := ToHTML("My Note", "# Title\n\nSome **bold** text.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatal(err)
	}
	s := string(got)
	for _, want := range []string{
		"<title>My Note</title>",
		"<h1",
		"<strong>bold</strong>",
		"<table>",
		"<!DOCTYPE html>",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %q in output:\n%s", want, s)
		}
	}
}

func TestToHTMLEscapesTitle(t *testing.T) {
	got, err := ToHTML(`<script>alert(1)</script>`, "body")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(got), "<script>alert") {
		t.Fatal("title not escaped")
	}
}

func TestToText(t *testing.T) {
	src := "# raw\n*markdown*"
	if got := string(ToText(src)); got != src {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"note.md", "note.md"},
		{"my note.md", "my_note.md"},
		{"../../etc/passwd", "_.._etc_passwd"},
		{"..hidden", "hidden"},
		{"weird:*?chars!.md", "weirdchars.md"},
		{"", "untitled"},
		{"...", "untitled"},
	}
	for _, tc := range tests {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSafeJoin(t *testing.T) {
	if _, err := SafeJoin("/exports", "../secret"); !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("err = %v, want ErrUnsafePath", err)
	}
	if _, err := SafeJoin("/exports", "a/../../secret"); !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("err = %v, want ErrUnsafePath", err)
	}
	got, err := SafeJoin("/exports", "note.html")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/exports/note.html" {
		t.Fatalf("got %q", got)
	}
}
