// Package web serves the dashboard: an HTML page with live and historical
// charts, JSON endpoints, an SSE stream of new readings and a CSV download.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"riesgopais/internal/domain"
	"riesgopais/internal/risk"
)

const readingPollInterval = 2 * time.Second

type readingStore interface {
	ReadingsAfter(index uint64) ([]domain.RiskReadingRecord, error)
}

type riskProvider interface {
	CurrentReading(ctx context.Context) (domain.RiskReading, error)
	History(ctx context.Context, year int, month time.Month) ([]domain.HistoryPoint, error)
}

// Server exposes HTTP endpoints serving the HTML UI, the API and an SSE
// stream replaying the session's readings.
type Server struct {
	Addr   string
	Risk   riskProvider
	Store  readingStore
	Symbol string
	logger *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, riskSvc riskProvider, store readingStore, symbol string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Addr: addr, Risk: riskSvc, Store: store, Symbol: symbol, logger: logger}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/risk", s.handleRisk)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/history.csv", s.handleHistoryCSV)
	mux.HandleFunc("/risk/stream", s.handleRiskStream)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	reading, err := s.Risk.CurrentReading(r.Context())
	if err != nil {
		s.logger.Warn("risk request failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": err.Error(),
			"hint":  "try another source preference or supply a manual price",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reading)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	points, ok := s.filteredHistory(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(points)
}

func (s *Server) handleHistoryCSV(w http.ResponseWriter, r *http.Request) {
	points, ok := s.filteredHistory(w, r)
	if !ok {
		return
	}

	name := fmt.Sprintf("riesgo_pais_%s.csv", s.Symbol)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := risk.WriteCSV(w, points); err != nil {
		s.logger.Error("csv export failed", zap.Error(err))
	}
}

func (s *Server) filteredHistory(w http.ResponseWriter, r *http.Request) ([]domain.HistoryPoint, bool) {
	year, err := intParam(r, "year")
	if err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return nil, false
	}
	monthNum, err := intParam(r, "month")
	if err != nil || monthNum < 0 || monthNum > 12 {
		http.Error(w, "invalid month", http.StatusBadRequest)
		return nil, false
	}

	points, err := s.Risk.History(r.Context(), year, time.Month(monthNum))
	if err != nil {
		s.logger.Warn("history request failed", zap.Error(err))
		http.Error(w, "historical data unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return points, true
}

func intParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) handleRiskStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "reading store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(readingPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendReadings := func() error {
		records, err := s.Store.ReadingsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Reading)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: reading\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendReadings(); err != nil {
		http.Error(w, "failed to load readings", http.StatusInternalServerError)
		s.logger.Error("reading stream initial load", zap.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendReadings(); err != nil {
				s.logger.Warn("reading stream poll", zap.Error(err))
			}
		}
	}
}
