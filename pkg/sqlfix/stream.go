package sqlfix

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Stats summarizes a Copy run.
type Stats struct {
	Lines   int // lines read
	Changed int // lines whose output differs from their input
}

// Copy reads src line by line, escapes each line and writes it to dst.
// Lines may be of any length. Line terminators are preserved.
func Copy(dst io.Writer, src io.Reader) (Stats, error) {
	var stats Stats

	r := bufio.NewReader(src)
	w := bufio.NewWriter(dst)

	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			stats.Lines++
			body, eol := splitEOL(line)
			escaped := EscapeLine(body)
			if escaped != body {
				stats.Changed++
			}
			if _, werr := w.WriteString(escaped + eol); werr != nil {
				return stats, fmt.Errorf("write error at line %d: %w", stats.Lines, werr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("read error after line %d: %w", stats.Lines, err)
		}
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("flushing output: %w", err)
	}
	return stats, nil
}
