package domain

import "strings"

// LineTerminator ends the header and every log line.
const LineTerminator = "\r\n"

// LogHeader names the log columns in the order Sample.Line writes them.
var LogHeader = strings.Join([]string{"FPS", "CPU time", "GPU time", "Render time", "Memory"}, LogFieldSeparator)

// LogBuffer is a text log that rolls over to just its header once more than
// limit lines have been written. The check happens before appending, so the
// buffer holds at most limit+1 lines.
type LogBuffer struct {
	header string
	limit  int
	count  int
	text   strings.Builder
}

func NewLogBuffer(header string, limit int) *LogBuffer {
	b := &LogBuffer{header: header, limit: limit}
	b.Reset()
	return b
}

// Append adds one line and reports whether the buffer rolled over first.
func (b *LogBuffer) Append(line string) bool {
	rolled := false
	if b.count > b.limit {
		b.Reset()
		rolled = true
	}
	b.count++
	b.text.WriteString(line)
	b.text.WriteString(LineTerminator)
	return rolled
}

// Reset drops every line and leaves only the header.
func (b *LogBuffer) Reset() {
	b.text.Reset()
	b.text.WriteString(b.header)
	b.text.WriteString(LineTerminator)
	b.count = 0
}

// Text returns the header followed by every line since the last reset.
func (b *LogBuffer) Text() string {
	return b.text.String()
}

// Lines returns the data lines since the last reset, without terminators.
func (b *LogBuffer) Lines() []string {
	if b.count == 0 {
		return nil
	}
	body := strings.TrimPrefix(b.text.String(), b.header+LineTerminator)
	body = strings.TrimSuffix(body, LineTerminator)
	return strings.Split(body, LineTerminator)
}

func (b *LogBuffer) Count() int {
	return b.count
}

func (b *LogBuffer) Limit() int {
	return b.limit
}
