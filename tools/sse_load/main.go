// Command sse_load opens many concurrent connections to the dashboard's
// reading stream and reports how many events flow through. Used to size the
// stream handler before exposing the dashboard beyond localhost.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

type counters struct {
	connected   int64
	connectErrs int64
	streamErrs  int64
	readings    int64
	heartbeats  int64
}

func main() {
	var (
		targetURL   string
		connections int
		duration    time.Duration
		rampUp      time.Duration
	)

	flag.StringVar(&targetURL, "url", "http://localhost:8080/risk/stream", "reading stream URL")
	flag.IntVar(&connections, "conns", 200, "concurrent connections to open")
	flag.DurationVar(&duration, "dur", 60*time.Second, "test duration (0 runs until interrupted)")
	flag.DurationVar(&rampUp, "ramp", 0, "window to spread connection starts across")
	flag.Parse()

	if connections <= 0 {
		log.Fatalf("invalid conns: %d", connections)
	}
	if rampUp == 0 && connections > 100 {
		rampUp = time.Duration(connections/100) * time.Second
		log.Printf("ramping %d connections over %s", connections, rampUp)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	if duration > 0 {
		var timedCancel context.CancelFunc
		ctx, timedCancel = context.WithTimeout(ctx, duration)
		defer timedCancel()
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxConnsPerHost:     connections + 10,
			MaxIdleConnsPerHost: connections + 10,
			DisableCompression:  true,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
		Timeout: 0, // streaming
	}

	log.Printf("starting stream load: url=%s conns=%d dur=%s", targetURL, connections, duration)
	start := time.Now()

	var stats counters
	var interval time.Duration
	if rampUp > 0 {
		interval = rampUp / time.Duration(connections)
	}

	var wg sync.WaitGroup
	for i := 0; i < connections; i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(interval):
			}
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			consumeStream(ctx, client, targetURL, &stats)
		}()
	}

	progress := time.NewTicker(5 * time.Second)
	go func() {
		defer progress.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-progress.C:
				log.Printf("connected=%d connect_errs=%d stream_errs=%d readings=%d heartbeats=%d",
					atomic.LoadInt64(&stats.connected),
					atomic.LoadInt64(&stats.connectErrs),
					atomic.LoadInt64(&stats.streamErrs),
					atomic.LoadInt64(&stats.readings),
					atomic.LoadInt64(&stats.heartbeats))
			}
		}
	}()

	wg.Wait()
	cancel()

	elapsed := time.Since(start)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	fmt.Printf("done: connected=%d connect_errs=%d stream_errs=%d readings=%d heartbeats=%d elapsed=%s readings/s=%.2f\n",
		atomic.LoadInt64(&stats.connected),
		atomic.LoadInt64(&stats.connectErrs),
		atomic.LoadInt64(&stats.streamErrs),
		atomic.LoadInt64(&stats.readings),
		atomic.LoadInt64(&stats.heartbeats),
		elapsed.Truncate(time.Millisecond),
		float64(atomic.LoadInt64(&stats.readings))/elapsed.Seconds())
}

func consumeStream(ctx context.Context, client *http.Client, url string, stats *counters) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		atomic.AddInt64(&stats.connectErrs, 1)
		return
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		atomic.AddInt64(&stats.connectErrs, 1)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		atomic.AddInt64(&stats.connectErrs, 1)
		return
	}

	atomic.AddInt64(&stats.connected, 1)
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if ctx.Err() == nil {
				atomic.AddInt64(&stats.streamErrs, 1)
			}
			return
		}
		switch {
		case strings.HasPrefix(line, "event: reading"):
			atomic.AddInt64(&stats.readings, 1)
		case strings.HasPrefix(line, ":"):
			atomic.AddInt64(&stats.heartbeats, 1)
		}
	}
}
