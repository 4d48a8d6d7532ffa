package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fields is the detail payload attached to a log entry. Keys double as
// message template placeholders.
type Fields map[string]interface{}

// Logger emits entries keyed by a stable Reference code.
type Logger struct {
	zl zerolog.Logger
}

// NewRoot builds the process logger. Local environments get human readable
// console output, everything else gets JSON lines on stdout.
func NewRoot(env string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func New(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger carrying key on every entry.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// Zerolog exposes the underlying logger for HTTP middleware.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Log writes exactly one entry for ref, rendering its message template
// with fields and attaching fields as the detail payload.
func (l *Logger) Log(ref Reference, fields Fields) {
	evt := l.zl.WithLevel(ref.Level)
	if evt == nil {
		return
	}
	evt = evt.Str("reference", ref.Code)
	if len(fields) > 0 {
		evt = evt.Interface("detail", fields)
	}
	evt.Msg(Render(ref.Message, fields))
}

// Render substitutes {name} placeholders in template with values from
// fields. Unknown placeholders are left untouched.
func Render(template string, fields Fields) string {
	if len(fields) == 0 || !strings.Contains(template, "{") {
		return template
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(deref(fields[k])))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func deref(v interface{}) interface{} {
	switch p := v.(type) {
	case *string:
		if p == nil {
			return "<nil>"
		}
		return *p
	}
	return v
}
