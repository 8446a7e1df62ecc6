package internal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/risk"
)

type scriptedService struct {
	mu       sync.Mutex
	readings []domain.RiskReading
	errs     []error
	call     int
}

func (s *scriptedService) CurrentReading(_ context.Context) (domain.RiskReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.call
	if i >= len(s.readings) {
		i = len(s.readings) - 1
	}
	s.call++
	if s.errs[i] != nil {
		return domain.RiskReading{}, s.errs[i]
	}
	return s.readings[i], nil
}

type recordingStore struct {
	mu       sync.Mutex
	appended []domain.RiskReading
}

func (s *recordingStore) Append(reading domain.RiskReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appended = append(s.appended, reading)
	return nil
}

func (s *recordingStore) snapshot() []domain.RiskReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.RiskReading(nil), s.appended...)
}

func reading(spread float64) domain.RiskReading {
	return domain.RiskReading{
		SpreadBps:  spread,
		ArgPrice:   34.2,
		USYield:    4.5,
		SourceUsed: domain.SourceAPI,
		Level:      domain.LevelFor(spread),
		ComputedAt: time.Now(),
	}
}

func TestMonitorAppendsEachTick(t *testing.T) {
	svc := &scriptedService{
		readings: []domain.RiskReading{reading(2400)},
		errs:     []error{nil},
	}
	store := &recordingStore{}
	m := NewMonitor(svc, store, 20*time.Millisecond, 2500)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()
	err := m.Run(ctx, zap.NewNop())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// immediate first refresh plus at least two ticks
	assert.GreaterOrEqual(t, len(store.snapshot()), 3)
}

func TestMonitorSkipsUnavailableReadings(t *testing.T) {
	svc := &scriptedService{
		readings: []domain.RiskReading{{}, reading(2600)},
		errs:     []error{risk.ErrUnavailable, nil},
	}
	store := &recordingStore{}
	m := NewMonitor(svc, store, 20*time.Millisecond, 2500)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = m.Run(ctx, zap.NewNop())

	appended := store.snapshot()
	require.NotEmpty(t, appended)
	for _, r := range appended {
		assert.Equal(t, domain.SourceAPI, r.SourceUsed, "failed refreshes must not be stored")
	}
}
