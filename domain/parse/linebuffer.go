package parse

import "bytes"

// LineBuffer reassembles lines from arbitrarily split chunks.
// \n, \r\n and bare \r all terminate a line; empty lines are dropped.
type LineBuffer struct {
	partial []byte
}

// Write appends chunk and returns the lines it completed
func (b *LineBuffer) Write(chunk []byte) []string {
	b.partial = append(b.partial, chunk...)
	var lines []string
	for {
		i := bytes.IndexAny(b.partial, "\r\n")
		if i < 0 {
			break
		}
		if i > 0 {
			lines = append(lines, string(b.partial[:i]))
		}
		b.partial = b.partial[i+1:]
	}
	if len(b.partial) == 0 {
		b.partial = nil
	}
	return lines
}

// Flush returns the buffered unterminated line, if any, and resets the buffer
func (b *LineBuffer) Flush() (string, bool) {
	if len(b.partial) == 0 {
		return "", false
	}
	line := string(b.partial)
	b.partial = nil
	return line, true
}
