// Package readings persists the session's computed risk readings in an
// append-only WAL so the dashboard stream can replay and tail them.
package readings

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"riesgopais/internal/domain"
)

const (
	DefaultDir   = "./wal/readings"
	segmentLimit = 500
	maxSegments  = 10

	readingKeyPrefix = "risk_reading_"
)

// WALStore is an append-only store of risk readings.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore opens (or creates) the WAL in dir.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "reading_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: false,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init readings WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one reading to the log.
func (s *WALStore) Append(reading domain.RiskReading) error {
	if s == nil || s.wal == nil {
		return errors.New("readings store is not initialized")
	}
	if reading.SourceUsed == "" {
		return errors.New("reading source is required")
	}

	payload, err := json.Marshal(reading)
	if err != nil {
		return errors.Wrap(err, "marshal reading")
	}

	key := fmt.Sprintf("%s%s", readingKeyPrefix, reading.SourceUsed)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// ReadingsAfter returns every reading written after the given WAL index.
func (s *WALStore) ReadingsAfter(index uint64) ([]domain.RiskReadingRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("readings store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.RiskReadingRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		_, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}

		var reading domain.RiskReading
		if err := json.Unmarshal(payload, &reading); err != nil {
			return nil, errors.Wrap(err, "decode reading")
		}
		records = append(records, domain.RiskReadingRecord{Index: idx, Reading: reading})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("readings store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
