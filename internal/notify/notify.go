// Package notify is the outcome-surfacing boundary: operation results are
// pushed to a sink, fire-and-forget, and the core never consumes a return
// value from it.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/nazmulrahman/young-star-app/pkg/logging"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type Sink interface {
	Notify(ctx context.Context, title, body string, severity Severity)
}

// LogSink writes notifications to the process log; the default when no
// broker is configured.
type LogSink struct {
	log *logging.Logger
}

func NewLogSink(log *logging.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(ctx context.Context, title, body string, severity Severity) {
	fields := []zap.Field{
		zap.String("title", title),
		zap.String("severity", string(severity)),
	}
	if severity == SeverityError {
		s.log.Error(ctx, body, fields...)
		return
	}
	s.log.Info(ctx, body, fields...)
}
