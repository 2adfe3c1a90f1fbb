package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numUsers     = 20
	numChannels  = 5
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type session struct {
	Token      string `json:"token"`
	AuthUserID int    `json:"authUserId"`
}

type fixture struct {
	sessions []session
	channels []int
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== Treats Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Users: %d | Channels: %d\n\n", numUsers, numChannels)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Seeding users and channels ---")
	fx, err := seed()
	if err != nil {
		fmt.Printf("FAILED: %s\n", err)
		return
	}
	fmt.Printf("Seeded %d users, %d channels\n", len(fx.sessions), len(fx.channels))

	fmt.Println("\n--- Phase 1: Write-heavy (80% send, 20% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.80 {
			return doSend(rng, fx)
		}
		return doMessages(rng, fx)
	})

	fmt.Println("\n--- Phase 2: Read-heavy (10% send, 90% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doSend(rng, fx)
		case r < 0.50:
			return doMessages(rng, fx)
		case r < 0.70:
			return doGet("GET /channels/list", "/channels/list/v3", pick(rng, fx).Token)
		case r < 0.85:
			return doGet("GET /user/stats", "/user/stats/v1", pick(rng, fx).Token)
		default:
			return doGet("GET /health", "/health", "")
		}
	})
}

// seed registers users and puts every one of them into every channel.
func seed() (*fixture, error) {
	fx := &fixture{}
	stamp := time.Now().UnixNano()
	for i := 0; i < numUsers; i++ {
		var s session
		body := map[string]string{
			"email":     fmt.Sprintf("load%d.%d@example.com", stamp, i),
			"password":  "loadtest-password",
			"nameFirst": "Load",
			"nameLast":  fmt.Sprintf("Tester%d", i),
		}
		if err := call(http.MethodPost, "/auth/register/v3", "", body, &s); err != nil {
			return nil, err
		}
		fx.sessions = append(fx.sessions, s)
	}

	owner := fx.sessions[0]
	for i := 0; i < numChannels; i++ {
		var created struct {
			ChannelID int `json:"channelId"`
		}
		body := map[string]interface{}{"name": fmt.Sprintf("load%d", i), "isPublic": true}
		if err := call(http.MethodPost, "/channels/create/v3", owner.Token, body, &created); err != nil {
			return nil, err
		}
		fx.channels = append(fx.channels, created.ChannelID)
		for _, s := range fx.sessions[1:] {
			if err := call(http.MethodPost, "/channel/join/v3", s.Token, map[string]int{"channelId": created.ChannelID}, nil); err != nil {
				return nil, err
			}
		}
	}
	return fx, nil
}

func call(method, path, token string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func pick(rng *rand.Rand, fx *fixture) session {
	return fx.sessions[rng.Intn(len(fx.sessions))]
}

func doSend(rng *rand.Rand, fx *fixture) result {
	body := map[string]interface{}{
		"channelId": fx.channels[rng.Intn(len(fx.channels))],
		"message":   fmt.Sprintf("load message %d", rng.Int63()),
	}
	start := time.Now()
	err := call(http.MethodPost, "/message/send/v2", pick(rng, fx).Token, body, nil)
	return result{"POST /message/send", 0, time.Since(start), err != nil}
}

func doMessages(rng *rand.Rand, fx *fixture) result {
	path := fmt.Sprintf("/channel/messages/v3?channelId=%d&start=0", fx.channels[rng.Intn(len(fx.channels))])
	return doGet("GET /channel/messages", path, pick(rng, fx).Token)
}

func doGet(endpoint, path, token string) result {
	req, _ := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if token != "" {
		req.Header.Set("token", token)
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 90))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		return
	}
	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 90))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
