package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riesgopais/internal/domain"
	"riesgopais/internal/httpx"
)

func testClient() *httpx.Client {
	return httpx.New(2 * time.Second)
}

func TestAPISourceFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"symbol":"GD30D","c":38.1},{"symbol":"AL30D","c":34.55}]`)
	}))
	defer srv.Close()

	s := NewAPISource(testClient(), srv.URL, nil)
	quote, err := s.FetchPrice(context.Background(), "AL30D.BA")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceAPI, quote.Source)
	assert.Equal(t, "34.55", quote.Value.String())
	assert.WithinDuration(t, time.Now(), quote.FetchedAt, time.Minute)
}

func TestAPISourceSymbolNotListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"symbol":"GD30D","c":38.1}]`)
	}))
	defer srv.Close()

	s := NewAPISource(testClient(), srv.URL, nil)
	_, err := s.FetchPrice(context.Background(), "AL30D")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestAPISourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewAPISource(testClient(), srv.URL, nil)
	_, err := s.FetchPrice(context.Background(), "AL30D")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestAPISourceMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":`)
	}))
	defer srv.Close()

	s := NewAPISource(testClient(), srv.URL, nil)
	_, err := s.FetchPrice(context.Background(), "AL30D")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestAPISourceConnectionRefused(t *testing.T) {
	s := NewAPISource(testClient(), "http://127.0.0.1:1", nil)
	_, err := s.FetchPrice(context.Background(), "AL30D")
	assert.ErrorIs(t, err, ErrAbsent)
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AL30D", NormalizeSymbol("al30d.ba"))
	assert.Equal(t, "AL30D", NormalizeSymbol(" AL30D "))
	assert.Equal(t, "GD35", NormalizeSymbol("gd35"))
}
