package runner

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// contextLines is how many lines around a failing line are kept.
const contextLines = 10

// ContextLine is one line of script surrounding a failure.
type ContextLine struct {
	Number  int
	Text    string
	Failing bool
}

// ScriptError is a database error raised while executing a seed script.
type ScriptError struct {
	Code     string
	Message  string
	Hint     string
	Detail   string
	Position int // 1-based character offset, 0 if unknown
	Line     int // 1-based line, 0 if unknown
	Context  []ContextLine
	Err      error
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// IsJSON reports whether the failure looks like a JSON parse problem,
// which usually means a bad escape inside a jsonb literal.
func (e *ScriptError) IsJSON() bool {
	return strings.Contains(strings.ToLower(e.Message), "json")
}

func newScriptError(script string, err error) *ScriptError {
	se := &ScriptError{Message: err.Error(), Err: err}

	var pqErr *pq.Error
	var myErr *mysql.MySQLError
	switch {
	case errors.As(err, &pqErr):
		se.Code = string(pqErr.Code)
		se.Message = pqErr.Message
		se.Hint = pqErr.Hint
		se.Detail = pqErr.Detail
		if pos, convErr := strconv.Atoi(pqErr.Position); convErr == nil && pos > 0 {
			se.Position = pos
			se.Line, se.Context = locate(script, pos)
		}
	case errors.As(err, &myErr):
		se.Code = strconv.Itoa(int(myErr.Number))
		se.Message = myErr.Message
	}

	return se
}

// locate maps a 1-based character position to a line number and the lines
// around it.
func locate(script string, pos int) (int, []ContextLine) {
	runes := []rune(script)
	if pos > len(runes) {
		pos = len(runes)
	}
	line := strings.Count(string(runes[:pos]), "\n") + 1

	all := strings.Split(script, "\n")
	start := max(0, line-1-contextLines)
	end := min(len(all), line+contextLines)

	ctx := make([]ContextLine, 0, end-start)
	for i := start; i < end; i++ {
		ctx = append(ctx, ContextLine{
			Number:  i + 1,
			Text:    all[i],
			Failing: i+1 == line,
		})
	}
	return line, ctx
}
