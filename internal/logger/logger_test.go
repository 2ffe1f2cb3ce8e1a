package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"course_id", "c1", "CLAI_OPENAI_API_KEY", "sk-123", "output_tokens", 12, "dangling"})
	assert.Equal(t, []interface{}{"course_id", "c1", "CLAI_OPENAI_API_KEY", "[REDACTED]", "output_tokens", 12, "dangling"}, out)
}

func TestLogger_WritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("lesson_id", "l1").Warn("slide rejected", "index", 2, "reason", "missing content")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "slide rejected", entries[0].Message)
		assert.Equal(t, "l1", fields["lesson_id"])
		assert.Equal(t, int64(2), fields["index"])
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("ignored", "k", "v")
	l.Sync()
}
