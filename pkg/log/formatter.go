package log

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "15:04:05.000"

// TextFormatter renders entries as "HH:MM:SS.mmm LEVEL message key=value ...", with fields sorted by key so that
// repeated runs produce identical output.
type TextFormatter struct {
	// DisableTimestamp omits the timestamp, which is useful in tests.
	DisableTimestamp bool
}

// NewTextFormatter returns a new TextFormatter instance with default values.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format implements logrus.Formatter.
func (formatter *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	if !formatter.DisableTimestamp {
		buf.WriteString(entry.Time.Format(timestampFormat))
		buf.WriteByte(' ')
	}

	buf.WriteString(strings.ToUpper(entry.Level.String()))
	buf.WriteByte(' ')

	if prefix, ok := entry.Data["prefix"].(string); ok && prefix != "" {
		fmt.Fprintf(&buf, "[%s] ", prefix)
	}

	buf.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))

	for key := range entry.Data {
		if key == "prefix" {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&buf, " %s=%v", key, entry.Data[key])
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}
