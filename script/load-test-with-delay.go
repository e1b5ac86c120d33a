package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Transaction represents the ledger entry payload
type Transaction struct {
	AccountID string `json:"accountId"`
	Type      string `json:"type"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
}

// Reconciliation is the answer of the reconcile endpoint
type Reconciliation struct {
	AccountID        string `json:"accountId"`
	Balance          int64  `json:"balance"`
	LedgerSum        int64  `json:"ledgerSum"`
	TransactionCount int64  `json:"transactionCount"`
	Consistent       bool   `json:"consistent"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	AccountStats       map[string]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

// TransactionScenario defines a ledger entry scenario
type TransactionScenario struct {
	Name   string
	Type   string
	Amount int64
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	accountIDsStr := flag.String("a", "", "Comma-separated list of account IDs to distribute load across")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	token := flag.String("token", os.Getenv("TE_TOKEN"), "Teacher bearer token (defaults to TE_TOKEN)")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	var accountIDs []string
	for _, id := range strings.Split(*accountIDsStr, ",") {
		if id = strings.TrimSpace(id); id != "" {
			accountIDs = append(accountIDs, id)
		}
	}
	if len(accountIDs) == 0 || *token == "" {
		fmt.Println("Usage: load-test-with-delay -a <account ids> -token <teacher token>")
		os.Exit(2)
	}

	// debits larger than the balance still succeed, the balance may go negative
	scenarios := []TransactionScenario{
		{"Deposit Small", "deposit", 5},
		{"Deposit Large", "deposit", 50},
		{"Withdraw Small", "withdrawal", 10},
		{"Withdraw Large", "withdrawal", 40},
		{"Adjustment", "adjustment", 1},
	}

	fmt.Printf("Load testing ledger across %d accounts\n", len(accountIDs))
	fmt.Printf("Transaction scenarios: %d\n", len(scenarios))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		AccountStats:    make(map[string]int),
		ScenarioStats:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	client := &http.Client{Timeout: 10 * time.Second}

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *token, *delayMs, accountIDs, scenarios, jobs, results, stats)
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.Lock.Lock()
			if result.Success {
				stats.SuccessfulRequests++
			} else {
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime
			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	fmt.Println("Test running...")

	ticker := time.NewTicker(1 * time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()

	stats.TotalTime = time.Since(startTime)

	printResults(stats)

	if !reconcileAll(client, *baseURL, *token, accountIDs) {
		os.Exit(1)
	}
}

func worker(client *http.Client, baseURL, token string, delayMs int, accountIDs []string,
	scenarios []TransactionScenario, jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	for jobID := range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		accountID := accountIDs[rand.Intn(len(accountIDs))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.AccountStats[accountID]++
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		payload, err := json.Marshal(Transaction{
			AccountID: accountID,
			Type:      scenario.Type,
			Amount:    scenario.Amount,
			Reason:    fmt.Sprintf("load test #%d", jobID),
		})
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}

		req, err := http.NewRequest(http.MethodPost, baseURL+"/api/transactions", bytes.NewReader(payload))
		if err != nil {
			results <- TestResult{Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		startTime := time.Now()
		resp, err := client.Do(req)
		result := TestResult{ResponseTime: time.Since(startTime)}

		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
			if !result.Success {
				result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
			}
			resp.Body.Close()
		}

		results <- result
	}
}

// reconcileAll checks that every balance still equals the sum of its ledger
func reconcileAll(client *http.Client, baseURL, token string, accountIDs []string) bool {
	fmt.Println("\n----------------- RECONCILIATION -----------------")
	ok := true
	for _, id := range accountIDs {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/accounts/"+id+"/reconcile", nil)
		if err != nil {
			fmt.Printf("%s: %v\n", id, err)
			ok = false
			continue
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("%s: %v\n", id, err)
			ok = false
			continue
		}

		var rec Reconciliation
		err = json.NewDecoder(resp.Body).Decode(&rec)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			fmt.Printf("%s: HTTP status code %d\n", id, resp.StatusCode)
			ok = false
			continue
		}

		mark := "✅"
		if !rec.Consistent {
			mark = "❌"
			ok = false
		}
		fmt.Printf("%s %s balance=%d ledger=%d entries=%d\n",
			mark, rec.AccountID, rec.Balance, rec.LedgerSum, rec.TransactionCount)
	}
	return ok
}

func printResults(stats *TestStats) {
	tps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	var p50, p90, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))

		sorted := make([]time.Duration, len(stats.ResponseTimes))
		copy(sorted, stats.ResponseTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		p50 = sorted[len(sorted)*50/100]
		p90 = sorted[len(sorted)*90/100]
		p95 = sorted[len(sorted)*95/100]
		p99 = sorted[len(sorted)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed Requests:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("TPS:                 %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P90 Response:        %v\n", p90)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	fmt.Println("\n----------------- ACCOUNT DISTRIBUTION -----------------")
	for accountID, count := range stats.AccountStats {
		fmt.Printf("%s: %d requests (%.1f%%)\n", accountID, count,
			float64(count)/float64(stats.TotalRequests)*100)
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count,
			float64(count)/float64(stats.TotalRequests)*100)
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count,
				float64(count)/float64(stats.TotalRequests)*100)
		}
	}
}
