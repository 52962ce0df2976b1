package testsessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitSessions submits sessions concurrently using worker pools
func submitSessions(ctx context.Context, config *Config, sessions []Session, stats *Stats) error {
	log.Printf("📤 Submitting %d sessions with %d workers...", len(sessions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/sessions"

	// Counters for statistics
	var (
		analyzed  int64
		duplicate int64
		rejected  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	sessionChan := make(chan Session, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for session := range sessionChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleSession(ctx, client, url, session)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result {
					case "analyzed":
						atomic.AddInt64(&analyzed, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						ok := atomic.LoadInt64(&analyzed)
						dup := atomic.LoadInt64(&duplicate)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (analyzed: %d, duplicate: %d, rejected: %d, failed: %d)",
								total, len(sessions), ok, dup, rej, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (analyzed: %d, duplicate: %d, rejected: %d, failed: %d)",
								total, len(sessions), ok, dup, rej, fail)
						}
					}
				}
			}
		}()
	}

	// Send sessions to workers
	go func() {
		defer close(sessionChan)
		for _, session := range sessions {
			select {
			case <-ctx.Done():
				return
			case sessionChan <- session:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.SessionsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SessionsAnalyzed = int(atomic.LoadInt64(&analyzed))
	stats.SessionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SessionsRejected = int(atomic.LoadInt64(&rejected))
	stats.SessionsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Session submission completed:
   Analyzed: %d
   Duplicate: %d
   Rejected: %d
   Failed: %d
`, stats.SessionsAnalyzed, stats.SessionsDuplicate, stats.SessionsRejected, stats.SessionsFailed)

	return nil
}

// submitSingleSession submits a single session and returns the result
func submitSingleSession(ctx context.Context, client *HTTPClient, url string, session Session) string {
	resp, err := client.Post(ctx, url, session)
	if err != nil {
		return "failed"
	}

	// Read response body
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	// Parse response based on status code
	switch resp.StatusCode {
	case StatusOK:
		var ack SessionAck
		if err := unmarshalJSON(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "analyzed"
	case StatusUnprocessable:
		// The perception layer found no usable face or speech signal.
		return "rejected"
	default:
		// Error
		return "failed"
	}
}
