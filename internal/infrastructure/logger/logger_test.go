package logger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates console logger", func(t *testing.T) {
		logger, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("creates json logger", func(t *testing.T) {
		logger, err := New(ProductionConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
	})
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNewGormLogger(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn)
		assert.Equal(t, 200*time.Millisecond, gl.slowThreshold)
		assert.True(t, gl.ignoreRecordNotFoundError)
	})

	t.Run("custom slow threshold", func(t *testing.T) {
		gl := NewGormLogger(zap.NewNop(), gormlogger.Info, WithSlowThreshold(time.Second))
		assert.Equal(t, time.Second, gl.slowThreshold)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"UNKNOWN", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("other"))
}

func TestContext(t *testing.T) {
	t.Run("round trips the logger", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Equal(t, logger, FromContext(ctx))
	})

	t.Run("missing logger falls back to nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id round trip", func(t *testing.T) {
		ctx, enriched := WithRequestID(context.Background(), zap.NewNop(), "req-123")
		assert.NotNil(t, enriched)
		assert.Equal(t, "req-123", GetRequestID(ctx))
	})
}

func testSpanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0123456789abcdef")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
}

func TestTraceCorrelation(t *testing.T) {
	t.Run("no span yields empty ids", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, GetTraceID(ctx))
		assert.Empty(t, GetSpanID(ctx))
	})

	t.Run("extracts ids from span context", func(t *testing.T) {
		ctx := trace.ContextWithSpanContext(context.Background(), testSpanContext(t))
		assert.Equal(t, "0123456789abcdef0123456789abcdef", GetTraceID(ctx))
		assert.Equal(t, "0123456789abcdef", GetSpanID(ctx))
	})

	t.Run("no span returns logger unchanged", func(t *testing.T) {
		logger := zap.NewNop()
		assert.Equal(t, logger, WithTraceContext(context.Background(), logger))
	})

	t.Run("adds trace fields to log entries", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		logger := zap.New(core)

		ctx := trace.ContextWithSpanContext(context.Background(), testSpanContext(t))
		WithTraceContext(ctx, logger).Info("correlated")

		entries := logs.All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "0123456789abcdef0123456789abcdef", fields["trace_id"])
		assert.Equal(t, "0123456789abcdef", fields["span_id"])
	})
}
