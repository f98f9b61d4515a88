package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/outfit-trends/internal/config"
	"go.uber.org/zap/zaptest"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Lookup(ctx context.Context, location string, units Units) (Reading, error) {
	args := m.Called(ctx, location, units)
	return args.Get(0).(Reading), args.Error(1)
}

var breakerCfg = config.BreakerConfig{
	Enabled:             true,
	Interval:            30,
	Timeout:             15,
	ConsecutiveFailures: 3,
}

func TestBreakerProvider_Success(t *testing.T) {
	wrapped := new(mockProvider)
	expected := Reading{Temperature: 70, Condition: "clear", Description: "clear sky"}
	wrapped.On("Lookup", mock.Anything, "94103", Imperial).Return(expected, nil).Once()

	bp := NewBreakerProvider(breakerCfg, wrapped, zaptest.NewLogger(t))

	reading, err := bp.Lookup(context.Background(), "94103", Imperial)
	require.NoError(t, err)
	assert.Equal(t, expected, reading)
	assert.Equal(t, "mock", bp.Name())
	wrapped.AssertExpectations(t)
}

func TestBreakerProvider_TripsAfterConsecutiveFailures(t *testing.T) {
	wrapped := new(mockProvider)
	cause := &UnavailableError{Provider: "mock", Location: "94103", Err: errors.New("timeout")}
	wrapped.On("Lookup", mock.Anything, "94103", Imperial).Return(Reading{}, cause).Times(3)

	bp := NewBreakerProvider(breakerCfg, wrapped, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		_, err := bp.Lookup(context.Background(), "94103", Imperial)
		assert.ErrorIs(t, err, ErrWeatherUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, bp.State())

	_, err := bp.Lookup(context.Background(), "94103", Imperial)
	assert.ErrorIs(t, err, ErrWeatherUnavailable)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	wrapped.AssertNumberOfCalls(t, "Lookup", 3)
}

func TestBreakerProvider_InvalidQueryDoesNotTrip(t *testing.T) {
	wrapped := new(mockProvider)
	cause := &UnavailableError{Provider: "mock", Err: ErrInvalidQuery}
	wrapped.On("Lookup", mock.Anything, "", Imperial).Return(Reading{}, cause)

	bp := NewBreakerProvider(breakerCfg, wrapped, zaptest.NewLogger(t))

	for i := 0; i < 5; i++ {
		_, err := bp.Lookup(context.Background(), "", Imperial)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	}
	assert.Equal(t, gobreaker.StateClosed, bp.State())
}
