package testsessions

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
)

// retrieveSnapshots retrieves analytics snapshots for all users concurrently.
func retrieveSnapshots(ctx context.Context, config *Config, sessions []Session, stats *Stats) (map[string]Snapshot, error) {
	// Extract unique user IDs
	seen := make(map[string]struct{})
	userIDs := make([]string, 0, config.NumUsers)
	for _, session := range sessions {
		if _, ok := seen[session.UserID]; !ok {
			seen[session.UserID] = struct{}{}
			userIDs = append(userIDs, session.UserID)
		}
	}
	sort.Strings(userIDs)

	log.Printf("📈 Retrieving analytics snapshots for %d users with %d workers...", len(userIDs), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	snapshots := make([]Snapshot, len(userIDs))
	var (
		retrieved int64
		failed    int64
	)

	// Create worker pool
	userChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of IDs
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range userChan {
				select {
				case <-ctx.Done():
					return
				default:
					userID := userIDs[index]
					snapshot, err := retrieveSingleSnapshot(ctx, client, config.BaseURL, userID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get analytics for %s: %v", userID, err)
						}
					} else {
						snapshots[index] = snapshot
						atomic.AddInt64(&retrieved, 1)
					}
				}
			}
		}()
	}

	// Send user indices to workers
	go func() {
		defer close(userChan)
		for i := range userIDs {
			select {
			case <-ctx.Done():
				return
			case userChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Keep only successfully retrieved snapshots
	valid := make(map[string]Snapshot, len(userIDs))
	for i, userID := range userIDs {
		if snapshots[i].TotalInterviews > 0 || snapshots[i].WindowDays > 0 {
			valid[userID] = snapshots[i]
		}
	}

	// Update stats
	stats.SnapshotsRetrieved = len(valid)

	log.Printf(`✅ Snapshot retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(valid), int(atomic.LoadInt64(&failed)))

	return valid, nil
}

// retrieveSingleSnapshot retrieves the analytics snapshot for a single user.
func retrieveSingleSnapshot(ctx context.Context, client *HTTPClient, baseURL, userID string) (Snapshot, error) {
	requestURL := fmt.Sprintf("%s/analytics?user_id=%s", baseURL, url.QueryEscape(userID))

	resp, err := client.Get(ctx, requestURL)
	if err != nil {
		return Snapshot{}, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return Snapshot{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read response: %w", err)
	}

	var snapshot Snapshot
	if err := unmarshalJSON(body, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return snapshot, nil
}
