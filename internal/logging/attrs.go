package logging

import (
	"log/slog"
	"time"
)

// Shared attribute keys so log consumers can correlate records across
// pipeline stages.
const (
	FieldProgramID = "program_id"
	FieldUtterance = "utterance"
	FieldSpeaker   = "speaker"
	FieldStage     = "stage"
	FieldScore     = "score"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func ProgramID(id int64) Attr { return slog.Int64(FieldProgramID, id) }

func Utterance(ordinal int) Attr { return slog.Int(FieldUtterance, ordinal) }

func Speaker(name string) Attr { return slog.String(FieldSpeaker, name) }

func Stage(name string) Attr { return slog.String(FieldStage, name) }

func Score(value float64) Attr { return slog.Float64(FieldScore, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs into the variadic any form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
