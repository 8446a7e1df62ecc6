package risk

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/pkg/errors"

	"riesgopais/internal/domain"
	"riesgopais/internal/sources"
	"riesgopais/pkg/retrier"
)

const (
	historyRange = "5y"

	shortWindow = 7
	longWindow  = 30
)

// History returns the daily spread series filtered to a year and month.
// year 0 disables the year filter; month 0 disables the month filter.
// The full series is fetched once per history TTL.
func (s *Service) History(ctx context.Context, year int, month time.Month) ([]domain.HistoryPoint, error) {
	key := fmt.Sprintf("history|%s", s.symbol)
	full, err := s.historyCache.GetOrFetch(key, s.historyTTL, func() ([]domain.HistoryPoint, error) {
		return s.fetchFullHistory(ctx)
	})
	if err != nil {
		return nil, err
	}

	if year == 0 && month == 0 {
		return full, nil
	}
	filtered := make([]domain.HistoryPoint, 0, len(full))
	for _, p := range full {
		if year != 0 && p.Date.Year() != year {
			continue
		}
		if month != 0 && p.Date.Month() != month {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// fetchFullHistory downloads both close series, joins them on shared dates
// and computes the spread plus its moving averages. The two downloads are
// retried with backoff since this is the expensive, rarely-run pull.
func (s *Service) fetchFullHistory(ctx context.Context) ([]domain.HistoryPoint, error) {
	r := retrier.New(retrier.WithMaxRetries(2), retrier.WithInitialInterval(500*time.Millisecond))

	bondSymbol := s.symbol
	bond, err := retrier.DoWithData(r, ctx, func(ctx context.Context) ([]sources.ClosePoint, error) {
		return s.history.DailyCloses(ctx, bondSymbol, historyRange)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bond history for %s", bondSymbol)
	}

	treasury, err := retrier.DoWithData(r, ctx, func(ctx context.Context) ([]sources.ClosePoint, error) {
		return s.history.DailyCloses(ctx, sources.TreasurySymbol(), historyRange)
	})
	if err != nil {
		return nil, errors.Wrap(err, "treasury history")
	}

	points := joinSeries(bond, treasury)
	if len(points) == 0 {
		return nil, errors.New("bond and treasury series share no dates")
	}

	attachMovingAverages(points)
	return points, nil
}

// joinSeries intersects the two series by calendar date, computing the
// spread for every day both closed.
func joinSeries(bond, treasury []sources.ClosePoint) []domain.HistoryPoint {
	yieldByDate := make(map[time.Time]float64, len(treasury))
	for _, p := range treasury {
		yieldByDate[p.Date] = p.Close
	}

	points := make([]domain.HistoryPoint, 0, len(bond))
	for _, p := range bond {
		usYield, ok := yieldByDate[p.Date]
		if !ok || p.Close <= 0 {
			continue
		}
		_, spread := Spread(p.Close, usYield)
		points = append(points, domain.HistoryPoint{
			Date:      p.Date,
			ArgPrice:  p.Close,
			USYield:   usYield,
			SpreadBps: spread,
		})
	}
	return points
}

// attachMovingAverages fills the 7- and 30-period simple moving averages of
// the spread. Points inside the warmup window keep HasMA false.
func attachMovingAverages(points []domain.HistoryPoint) {
	spreads := make([]float64, len(points))
	for i, p := range points {
		spreads[i] = p.SpreadBps
	}

	for i, v := range simpleMovingAverage(spreads, shortWindow) {
		idx := i + shortWindow - 1
		points[idx].MA7 = v
		points[idx].HasMA7 = true
	}
	for i, v := range simpleMovingAverage(spreads, longWindow) {
		idx := i + longWindow - 1
		points[idx].MA30 = v
		points[idx].HasMA30 = true
	}
}

// simpleMovingAverage returns len(values)-period+1 averages, or nil when the
// series is shorter than the window.
func simpleMovingAverage(values []float64, period int) []float64 {
	if len(values) < period {
		return nil
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	return helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
}

// WriteCSV renders a history series for download.
func WriteCSV(w io.Writer, points []domain.HistoryPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "arg_price", "us_yield", "spread_bps", "ma7", "ma30"}); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			p.Date.Format("2006-01-02"),
			formatFloat(p.ArgPrice),
			formatFloat(p.USYield),
			formatFloat(p.SpreadBps),
			"",
			"",
		}
		if p.HasMA7 {
			row[4] = formatFloat(p.MA7)
		}
		if p.HasMA30 {
			row[5] = formatFloat(p.MA30)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
