package textutil

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello world", "hello world"},
		{"tags", "<p>Senior <b>ML</b> Engineer</p>", "Senior ML Engineer"},
		{"nbsp", "New York", "New York"},
		{"whitespace", "  a\t\tb \n c  ", "a b c"},
		{"malformed", "<div class='x >broken", "broken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanTextNeverLeavesTags(t *testing.T) {
	inputs := []string{
		"<html><body><h1>x</h1></body></html>",
		"a<br/>b<br />c",
		"<<nested>>",
	}
	for _, in := range inputs {
		got := CleanText(in)
		if strings.ContainsAny(got, "<>") && strings.Contains(got, "><") {
			t.Errorf("CleanText(%q) = %q, still looks like markup", in, got)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("CleanText(%q) = %q, has repeated whitespace", in, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q, want unchanged", got)
	}
	if got := Truncate("abcdefghij", 10); got != "abcdefghij" {
		t.Errorf("exact length should be unchanged, got %q", got)
	}
	if got := Truncate("abcdefghijk", 10); got != "abcdefghij..." {
		t.Errorf("got %q, want %q", got, "abcdefghij...")
	}
	// rune-safe: must not split a multibyte character
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("got %q, want %q", got, "héllo...")
	}
}
