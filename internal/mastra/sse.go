package mastra

import (
	"bufio"
	"io"
	"strings"
)

// maxEventSize bounds a single server-sent event. Tool outputs can be large.
const maxEventSize = 4 * 1024 * 1024

// readEvents calls fn with the data payload of every event in r until fn
// returns false or r ends. Multi-line data fields are joined with newlines;
// comments and other fields are ignored.
func readEvents(r io.Reader, fn func(payload string) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	var dataLines []string

	flush := func() bool {
		if len(dataLines) == 0 {
			return true
		}
		payload := strings.Join(dataLines, "\n")
		dataLines = dataLines[:0]
		return fn(payload)
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if !flush() {
				return nil
			}
			continue
		}
		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	flush()
	return nil
}
