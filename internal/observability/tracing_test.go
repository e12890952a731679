package observability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"instaclone/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() {
		Tracer = prev
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestServiceSpanOutcomes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantCode   string
		wantEvents int
	}{
		{"success", nil, codes.Unset, "", 0},
		{"conflict is an outcome", models.NewConflictError("Already liked."), codes.Unset, models.CodeConflict, 0},
		{"wrapped not found", fmt.Errorf("like: %w", models.NewNotFoundError("Post")), codes.Unset, models.CodeNotFound, 0},
		{"internal error fails the span", models.NewInternalError(errors.New("db gone")), codes.Error, "", 1},
		{"plain error fails the span", errors.New("boom"), codes.Error, "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordSpans(t)

			_, span := StartServiceSpan(context.Background(), "like", 3, 9)
			EndSpan(span, tt.err)

			ended := rec.Ended()
			require.Len(t, ended, 1)
			got := ended[0]
			assert.Equal(t, "service.like", got.Name())
			assert.Equal(t, tt.wantStatus, got.Status().Code)
			assert.Len(t, got.Events(), tt.wantEvents)

			a := attrs(got)
			assert.Equal(t, int64(3), a[AttrUserID].AsInt64())
			assert.Equal(t, int64(9), a[AttrPostID].AsInt64())
			code, ok := a[AttrErrorCode]
			assert.Equal(t, tt.wantCode != "", ok)
			if ok {
				assert.Equal(t, tt.wantCode, code.AsString())
			}
		})
	}
}

func TestStartServiceSpan_OmitsZeroIDs(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartServiceSpan(context.Background(), "create_post", 4, 0)
	EndSpan(span, nil)

	a := attrs(rec.Ended()[0])
	assert.Contains(t, a, AttrUserID)
	assert.NotContains(t, a, AttrPostID)
}

func TestInitTracing_Disabled(t *testing.T) {
	prev := Tracer
	t.Cleanup(func() { Tracer = prev })

	shutdown, err := InitTracing(TracingConfig{ServiceName: "instaclone-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1).Description())
	assert.Contains(t, newSampler(0.25).Description(), "ParentBased")
}
