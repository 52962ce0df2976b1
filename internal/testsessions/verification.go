package testsessions

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// userResult pairs a user with their retrieved snapshot for reporting.
type userResult struct {
	UserID   string
	Snapshot Snapshot
}

// verifyResults verifies the consistency of the retrieved analytics snapshots.
func verifyResults(ctx context.Context, config *Config, sessions []Session, snapshots map[string]Snapshot, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(snapshots) == 0 {
		return fmt.Errorf("no snapshots to verify")
	}

	// Count submitted sessions per user
	submittedByUser := make(map[string]int)
	for _, session := range sessions {
		submittedByUser[session.UserID]++
	}

	results := make([]userResult, 0, len(snapshots))
	for userID, snapshot := range snapshots {
		results = append(results, userResult{UserID: userID, Snapshot: snapshot})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Snapshot.AverageScore > results[j].Snapshot.AverageScore
	})

	warnings := 0
	for _, result := range results {
		if err := verifySnapshotConsistency(result, submittedByUser[result.UserID]); err != nil {
			warnings++
			log.Printf("⚠️  Snapshot consistency warning for %s: %v", result.UserID, err)
		}
	}
	if warnings == 0 {
		log.Println("✅ Snapshot consistency verified")
	}

	// Display top performers
	displayTopPerformers(results, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifySnapshotConsistency checks one user's snapshot against what was submitted.
func verifySnapshotConsistency(result userResult, submitted int) error {
	snapshot := result.Snapshot

	if snapshot.TotalInterviews == 0 {
		return fmt.Errorf("no interviews recorded despite %d submitted sessions", submitted)
	}

	// Every session carried a fresh interview ID, so the count can never
	// exceed what was submitted for the user.
	if snapshot.TotalInterviews > submitted {
		return fmt.Errorf("total interviews (%d) exceeds submitted sessions (%d)",
			snapshot.TotalInterviews, submitted)
	}

	if snapshot.AverageScore < 0 || snapshot.AverageScore > 100 {
		return fmt.Errorf("average score %.3f outside the 0-100 range", snapshot.AverageScore)
	}

	for kind, score := range snapshot.PerformanceByType {
		if score < 0 || score > 100 {
			return fmt.Errorf("performance for %q (%.3f) outside the 0-100 range", kind, score)
		}
	}

	if snapshot.TotalDurationMinutes < 0 {
		return fmt.Errorf("negative total duration: %.2f minutes", snapshot.TotalDurationMinutes)
	}

	return nil
}

// displayTopPerformers shows the users with the highest average scores.
func displayTopPerformers(results []userResult, verbose bool) {
	topN := 10
	if len(results) < topN {
		topN = len(results)
	}

	log.Printf("🏆 Top %d users by average score:", topN)
	for i := 0; i < topN; i++ {
		result := results[i]
		log.Printf("   %d. %s - Average: %.3f (interviews: %d)",
			i+1, result.UserID, result.Snapshot.AverageScore, result.Snapshot.TotalInterviews)
	}

	if verbose {
		// Show some statistics
		if len(results) > 0 {
			avgScore := calculateAverageScore(results)
			maxScore := results[0].Snapshot.AverageScore
			minScore := results[len(results)-1].Snapshot.AverageScore

			log.Printf(`📊 Score statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avgScore, maxScore, minScore)
		}
	}
}

// calculateAverageScore calculates the average score across users.
func calculateAverageScore(results []userResult) float64 {
	if len(results) == 0 {
		return 0
	}

	sum := 0.0
	for _, result := range results {
		sum += result.Snapshot.AverageScore
	}

	return sum / float64(len(results))
}
