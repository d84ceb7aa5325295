package logger

// MultiLogger fans every message out to several backends, e.g. stderr plus
// a log file or the Windows Event Log. Nil backends are dropped.
type MultiLogger struct {
	loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{loggers: make([]Logger, 0, len(loggers))}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) each(fn func(Logger)) {
	for _, l := range m.loggers {
		fn(l)
	}
}

func (m *MultiLogger) Info(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Info(format, args...) })
}

func (m *MultiLogger) Warning(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Warning(format, args...) })
}

func (m *MultiLogger) Error(format string, args ...interface{}) {
	m.each(func(l Logger) { l.Error(format, args...) })
}

// Close closes every backend and returns the first error.
func (m *MultiLogger) Close() error {
	var first error
	m.each(func(l Logger) {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	})
	return first
}

var _ Logger = (*MultiLogger)(nil)
