package sqlfix

import (
	"strings"
	"testing"
)

func TestEscapeLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no quotes", "SELECT 1 FROM dual;", "SELECT 1 FROM dual;"},
		{"plain literal", "'hello world'", "'hello world'"},
		{"already escaped", "'it''s fine'", "'it''s fine'"},
		{"unescaped apostrophe", "'it's fine'", "'it''s fine'"},
		{"close before comma", "'end',", "'end',"},
		{"close before paren", "VALUES ('a', 'b')", "VALUES ('a', 'b')"},
		{"close before brace", "{'a'}", "{'a'}"},
		{"close before bracket", "['a']", "['a']"},
		{"close before tab", "'a'\tx", "'a'\tx"},
		{"close at end of line", "x = 'abc'", "x = 'abc'"},
		{"close before final char", "'abc';", "'abc';"},
		{"empty literal", "''", "''"},
		{"empty literal then comma", "'', 'x'", "'', 'x'"},
		{"apostrophe before digit", "'version'2 notes'", "'version''2 notes'"},
		{"apostrophe before punctuation", "'a'.b c'", "'a''.b c'"},
		{"two apostrophes", "'Web API'nin ve DI'ın'", "'Web API''nin ve DI''ın'"},
		{"turkish suffix", "('API'ler, REST)", "('API''ler, REST)"},
		{"multibyte final char", "'ağ'ı'", "'ağ''ı'"},
		{"lone quote", "'", "'"},
		{"insert row", "('q1', 'C#'ta var'dır', 70),", "('q1', 'C#''ta var''dır', 70),"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeLine(tt.input)
			if got != tt.want {
				t.Errorf("EscapeLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// An apostrophe followed by a terminator is read as a closing delimiter.
func TestEscapeLine_TerminatorAmbiguity(t *testing.T) {
	input := "'rock 'n' roll'"
	want := "'rock ''n' roll'"
	if got := EscapeLine(input); got != want {
		t.Errorf("EscapeLine(%q) = %q, want %q", input, got, want)
	}
}

func TestEscapeLine_Idempotent(t *testing.T) {
	valid := []string{
		"'it''s fine'",
		"INSERT INTO t (a, b) VALUES ('O''Brien', 'x');",
		"('q1', 'C#''ta var''dır', 70),",
		"'', ''",
		"no quotes here",
	}

	for _, line := range valid {
		once := EscapeLine(line)
		twice := EscapeLine(once)
		if once != line {
			t.Errorf("EscapeLine(%q) changed valid input to %q", line, once)
		}
		if twice != once {
			t.Errorf("EscapeLine not idempotent on %q: %q then %q", line, once, twice)
		}
	}
}

func TestEscapeLines(t *testing.T) {
	input := []string{"'it's'", "", "plain", "'a',"}
	want := []string{"'it''s'", "", "plain", "'a',"}

	got := EscapeLines(input)
	if len(got) != len(input) {
		t.Fatalf("expected %d lines, got %d", len(input), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}

	if out := EscapeLines(nil); len(out) != 0 {
		t.Errorf("expected no lines, got %d", len(out))
	}
}

func TestEscapeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single line", "'it's'", "'it''s'"},
		{"trailing newline", "'it's'\n", "'it''s'\n"},
		{"crlf", "'it's'\r\n'ok'\r\n", "'it''s'\r\n'ok'\r\n"},
		{"state does not cross lines", "'open\nit's'", "'open\nit's'"},
		{"blank lines", "\n\n'a'b'\n", "\n\n'a''b'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeText(tt.input)
			if got != tt.want {
				t.Errorf("EscapeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if strings.Count(got, "\n") != strings.Count(tt.input, "\n") {
				t.Errorf("line count changed: %q -> %q", tt.input, got)
			}
		})
	}
}
