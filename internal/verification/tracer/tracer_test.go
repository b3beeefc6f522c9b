package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagrik/internal/verification/tracer"
)

func TestNoopTracer_Start(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, "test.span",
		tracer.String("key", "value"),
		tracer.Bool("flag", true),
	)

	// Context should be returned unchanged
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	// Span methods should not panic
	span.SetAttributes(tracer.String("another", "attr"))
	span.AddEvent("test.event", tracer.Int64("count", 42))
	span.End(nil)
}

func TestNoopTracer_SpanEndWithError(t *testing.T) {
	tr := tracer.NewNoop()

	_, span := tr.Start(context.Background(), "test.span")
	require.NotNil(t, span)

	// Should not panic when ending with error
	span.End(errors.New("test error"))
}

func TestAttributeConstructors(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		attr := tracer.String("key", "value")
		assert.Equal(t, "key", attr.Key)
		assert.Equal(t, "value", attr.Value)
	})

	t.Run("Bool", func(t *testing.T) {
		attr := tracer.Bool("flag", true)
		assert.Equal(t, "flag", attr.Key)
		assert.Equal(t, true, attr.Value)
	})

	t.Run("Int64", func(t *testing.T) {
		attr := tracer.Int64("count", 42)
		assert.Equal(t, "count", attr.Key)
		assert.Equal(t, int64(42), attr.Value)
	})

	t.Run("Float64", func(t *testing.T) {
		attr := tracer.Float64("ratio", 3.14)
		assert.Equal(t, "ratio", attr.Key)
		assert.Equal(t, 3.14, attr.Value)
	})

	t.Run("Duration", func(t *testing.T) {
		attr := tracer.Duration("latency", 150*time.Millisecond)
		assert.Equal(t, "latency", attr.Key)
		assert.Equal(t, int64(150), attr.Value)
	})
}

func TestSpanConstants(t *testing.T) {
	assert.Equal(t, "verification.pipeline", tracer.SpanPipeline)
}

func TestAttributeConstants(t *testing.T) {
	assert.Equal(t, "document_type", tracer.AttrDocumentType)
	assert.Equal(t, "fraud.risk_level", tracer.AttrRiskLevel)
	assert.Equal(t, "status", tracer.AttrStatus)
}
