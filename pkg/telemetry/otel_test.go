package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/outfit-trends/internal/config"
)

func TestNew_Disabled(t *testing.T) {
	tele, err := New(context.Background(), config.TelemetryConfig{Enabled: false}, "test")
	require.NoError(t, err)

	assert.False(t, tele.IsEnabled())
	assert.NotNil(t, tele.GetTracer())
	assert.NoError(t, tele.Shutdown(context.Background()))

	// must be a no-op when tracing is off
	tele.RecordError(context.Background(), errors.New("boom"))
}

func TestNilTelemetry(t *testing.T) {
	var tele *Telemetry

	assert.False(t, tele.IsEnabled())

	ctx, span := tele.GetTracer().Start(context.Background(), "span")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
}
