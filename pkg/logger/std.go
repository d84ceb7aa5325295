package logger

import (
	"log"
	"strings"
)

type infoWriter struct {
	l Logger
}

func (w infoWriter) Write(p []byte) (int, error) {
	w.l.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// ToStdLogger adapts l for APIs that take a *log.Logger, such as
// http.Server.ErrorLog. Every line is logged at info level.
func ToStdLogger(l Logger) *log.Logger {
	return log.New(infoWriter{l: l}, "", 0)
}
