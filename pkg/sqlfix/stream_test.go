package sqlfix

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCopy(t *testing.T) {
	input := "BEGIN;\n" +
		"INSERT INTO quizzes (id, title) VALUES\n" +
		"('q1', 'ASP.NET Core'a Giriş'),\n" +
		"('q2', 'Middleware''ler');\n" +
		"COMMIT;"

	want := "BEGIN;\n" +
		"INSERT INTO quizzes (id, title) VALUES\n" +
		"('q1', 'ASP.NET Core''a Giriş'),\n" +
		"('q2', 'Middleware''ler');\n" +
		"COMMIT;"

	var out bytes.Buffer
	stats, err := Copy(&out, strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != want {
		t.Errorf("Copy output mismatch\ngot:  %q\nwant: %q", out.String(), want)
	}
	if stats.Lines != 5 {
		t.Errorf("expected 5 lines, got %d", stats.Lines)
	}
	if stats.Changed != 1 {
		t.Errorf("expected 1 changed line, got %d", stats.Changed)
	}
}

func TestCopy_LongLine(t *testing.T) {
	body := strings.Repeat("x", 200*1024)
	input := "'" + body + "'s'\n"

	var out bytes.Buffer
	stats, err := Copy(&out, strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "'" + body + "''s'\n"
	if out.String() != want {
		t.Errorf("long line was not escaped correctly (len got %d, want %d)", out.Len(), len(want))
	}
	if stats.Lines != 1 {
		t.Errorf("expected 1 line, got %d", stats.Lines)
	}
}

func TestCopy_Empty(t *testing.T) {
	var out bytes.Buffer
	stats, err := Copy(&out, strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 || stats.Lines != 0 {
		t.Errorf("expected empty output, got %q (%d lines)", out.String(), stats.Lines)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestCopy_WriteError(t *testing.T) {
	// Larger than the bufio.Writer buffer so the write reaches the writer.
	input := strings.Repeat("'a'\n", 4096)

	_, err := Copy(failingWriter{}, strings.NewReader(input))
	if err == nil {
		t.Fatal("expected write error, got nil")
	}
	if !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("expected wrapped broken pipe error, got %v", err)
	}
}
