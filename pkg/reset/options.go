package reset

import (
	"go.uber.org/zap"
)

// Option for the Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.l = l
		}
	}
}

// WithConfirmer sets how the operator confirms the publish stage. Defaults to refusing.
func WithConfirmer(c Confirmer) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.confirm = c
		}
	}
}

// WithReporter is called after every stage, to give the operator a status line
func WithReporter(report func(StageResult)) Option {
	return func(o *Orchestrator) {
		if report != nil {
			o.report = report
		}
	}
}
