package logging

import (
	"context"
	"maps"
	"sync"
)

// Entry is one message captured by a RecordingLogger.
type Entry struct {
	Level   Level
	Message string
	Err     error
	Fields  Fields
}

// RecordingLogger keeps every message in memory. Orchestrators use it to
// collect filter warnings per tile; tests use it to assert on them.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]Entry
	fields  Fields
	level   *Level
}

// NewRecordingLogger creates an empty recorder that keeps Debug and above.
func NewRecordingLogger() *RecordingLogger {
	level := DebugLevel
	return &RecordingLogger{
		mu:      &sync.Mutex{},
		entries: &[]Entry{},
		fields:  make(Fields),
		level:   &level,
	}
}

func (r *RecordingLogger) record(level Level, err error, msg string, fields ...Fields) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < *r.level {
		return
	}

	all := make(Fields)
	maps.Copy(all, r.fields)
	for _, f := range fields {
		maps.Copy(all, f)
	}
	*r.entries = append(*r.entries, Entry{Level: level, Message: msg, Err: err, Fields: all})
}

func (r *RecordingLogger) Debug(msg string, fields ...Fields) { r.record(DebugLevel, nil, msg, fields...) }
func (r *RecordingLogger) Info(msg string, fields ...Fields)  { r.record(InfoLevel, nil, msg, fields...) }
func (r *RecordingLogger) Warn(msg string, fields ...Fields)  { r.record(WarnLevel, nil, msg, fields...) }
func (r *RecordingLogger) Error(err error, msg string, fields ...Fields) {
	r.record(ErrorLevel, err, msg, fields...)
}

// Fatal records the message; unlike DefaultLogger it does not exit.
func (r *RecordingLogger) Fatal(err error, msg string, fields ...Fields) {
	r.record(FatalLevel, err, msg, fields...)
}

// WithFields returns a recorder sharing the same entry list.
func (r *RecordingLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields)
	maps.Copy(newFields, r.fields)
	maps.Copy(newFields, fields)
	return &RecordingLogger{mu: r.mu, entries: r.entries, fields: newFields, level: r.level}
}

func (r *RecordingLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := ctx.Value(ContextFieldsKey{}).(Fields); ok {
		return r.WithFields(fields)
	}
	return r
}

func (r *RecordingLogger) SetLevel(level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.level = level
}

// Entries returns a snapshot of everything recorded so far.
func (r *RecordingLogger) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(*r.entries))
	copy(out, *r.entries)
	return out
}

// Count returns how many entries were recorded at the given level.
func (r *RecordingLogger) Count(level Level) int {
	n := 0
	for _, e := range r.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
