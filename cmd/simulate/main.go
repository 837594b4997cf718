// Command simulate races concurrent bookers against a running api-server to
// exercise the no-double-booking guarantee. Every worker fetches the same
// provider's schedule and tries to claim the earliest available slots; at the
// end, successes per (date, time) must never exceed one.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type simConfig struct {
	apiBaseURL string
	providerID string
	workers    int
	duration   time.Duration
}

type scheduleResponse struct {
	ProviderID string `json:"provider_id"`
	Days       []struct {
		Date  string `json:"date"`
		Slots []struct {
			Date      string `json:"date"`
			Time      string `json:"time"`
			Available bool   `json:"available"`
		} `json:"slots"`
	} `json:"days"`
}

type bookingPayload struct {
	ProviderID  string `json:"provider_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	PatientName string `json:"patient_name"`
}

type metrics struct {
	total    int64
	success  int64
	conflict int64
	rejected int64
	errors   int64

	mu        sync.Mutex
	latencies []time.Duration
	winners   map[string]int // (date|time) -> success count; must stay <= 1
}

func (m *metrics) record(latency time.Duration, status int, key string) {
	atomic.AddInt64(&m.total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.success, 1)
		m.mu.Lock()
		m.winners[key]++
		m.mu.Unlock()
	case status == http.StatusConflict:
		atomic.AddInt64(&m.conflict, 1)
	case status == http.StatusUnprocessableEntity:
		atomic.AddInt64(&m.rejected, 1)
	default:
		atomic.AddInt64(&m.errors, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *metrics) percentile(p int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{}
	flag.StringVar(&cfg.apiBaseURL, "api", "http://127.0.0.1:8080", "api-server base URL")
	flag.StringVar(&cfg.providerID, "provider", "", "provider UUID to race on (required)")
	flag.IntVar(&cfg.workers, "workers", 20, "concurrent bookers")
	flag.DurationVar(&cfg.duration, "duration", 30*time.Second, "how long to run")
	flag.Parse()

	if cfg.providerID == "" {
		log.Fatal("-provider is required")
	}

	log.Printf("simulate starting: workers=%d duration=%s provider=%s",
		cfg.workers, cfg.duration, cfg.providerID)

	client := &http.Client{Timeout: 10 * time.Second}
	m := &metrics{winners: make(map[string]int)}
	deadline := time.Now().Add(cfg.duration)

	var wg sync.WaitGroup
	for i := 0; i < cfg.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			runWorker(client, cfg, m, deadline, workerID)
		}(i)
	}
	wg.Wait()

	report(m)
}

func runWorker(client *http.Client, cfg simConfig, m *metrics, deadline time.Time, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for time.Now().Before(deadline) {
		slots, err := fetchOpenSlots(client, cfg)
		if err != nil {
			atomic.AddInt64(&m.errors, 1)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if len(slots) == 0 {
			return // pool exhausted, nothing left to race on
		}

		// Everyone clusters on the front of the pool to force conflicts.
		pick := slots[rng.Intn(min(len(slots), 5))]
		submitBooking(client, cfg, m, pick, workerID)
	}
}

type openSlot struct {
	date string
	tm   string
}

func fetchOpenSlots(client *http.Client, cfg simConfig) ([]openSlot, error) {
	resp, err := client.Get(fmt.Sprintf("%s/providers/%s/schedule", cfg.apiBaseURL, cfg.providerID))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("schedule fetch status %d: %s", resp.StatusCode, body)
	}

	var sched scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&sched); err != nil {
		return nil, err
	}

	var slots []openSlot
	for _, day := range sched.Days {
		for _, s := range day.Slots {
			if s.Available {
				slots = append(slots, openSlot{date: s.Date, tm: s.Time})
			}
		}
	}
	return slots, nil
}

func submitBooking(client *http.Client, cfg simConfig, m *metrics, pick openSlot, workerID int) {
	payload, _ := json.Marshal(bookingPayload{
		ProviderID:  cfg.providerID,
		Date:        pick.date,
		Time:        pick.tm,
		PatientName: fmt.Sprintf("Load Tester %d", workerID),
	})

	start := time.Now()
	resp, err := client.Post(cfg.apiBaseURL+"/bookings", "application/json", bytes.NewReader(payload))
	latency := time.Since(start)
	if err != nil {
		atomic.AddInt64(&m.errors, 1)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	m.record(latency, resp.StatusCode, pick.date+"|"+pick.tm)
}

func report(m *metrics) {
	fmt.Println("--- simulation report ---")
	fmt.Printf("total=%d success=%d conflict=%d rejected=%d errors=%d\n",
		m.total, m.success, m.conflict, m.rejected, m.errors)
	fmt.Printf("latency p50=%s p95=%s\n", m.percentile(50), m.percentile(95))

	doubles := 0
	m.mu.Lock()
	for key, wins := range m.winners {
		if wins > 1 {
			doubles++
			fmt.Printf("DOUBLE BOOKING: %s won %d times\n", key, wins)
		}
	}
	m.mu.Unlock()

	if doubles > 0 {
		fmt.Printf("invariant VIOLATED: %d slots double-booked\n", doubles)
		os.Exit(1)
	}
	fmt.Println("invariant held: no slot booked more than once")
}
