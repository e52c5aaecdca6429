package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Keys shared by every log line that mentions a run, a candidate or an advisory backend.
const (
	FieldRunID       = "run_id"
	FieldCandidateID = "candidate_id"
	FieldProvider    = "ai_provider"
	FieldModel       = "ai_model"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields trims both sides of every pair and skips the ones left blank.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key != "" && value != "" {
			out = append(out, zap.String(key, value))
		}
	}
	return out
}

// WithFields is logger.With that accepts a nil logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

func RunID(id string) zap.Field {
	return zap.String(FieldRunID, id)
}

func CandidateID(id string) zap.Field {
	return zap.String(FieldCandidateID, id)
}

// WithProvider tags logger with the advisory backend. A blank model is left out.
func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}
