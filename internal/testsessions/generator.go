package testsessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"

	"github.com/Nagaurav/MockInterview1/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	frameBytesLen      = 256
	audioSampleCount   = 1600
)

// Interview types the generator cycles through.
var interviewTypes = []string{"Technical", "Behavioral", "System Design", "HR Screen"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSessions creates the configured number of sessions spread over a
// fixed user pool so that per-user analytics have something to aggregate.
func generateSessions(ctx context.Context, config *Config, stats *Stats) ([]Session, error) {
	logger.Get().Info(ctx, "generating sessions",
		logger.Int("numSessions", config.NumSessions),
		logger.Int("numUsers", config.NumUsers))

	userIDs := make([]string, config.NumUsers)
	for i := range userIDs {
		userIDs[i] = "tester-" + uuid.New().String()[:8]
	}

	sessions := make([]Session, config.NumSessions)
	for i := range sessions {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during session generation: %w", ctx.Err())
		default:
		}
		sessions[i] = generateSingleSession(userIDs[i%len(userIDs)])
	}

	stats.SessionsGenerated = len(sessions)
	logger.Get().Info(ctx, "generated sessions successfully", logger.Int("count", len(sessions)))

	return sessions, nil
}

// generateSingleSession fabricates one plausible session payload: a random
// frame and a noisy sine waveform so the extractors see real variation.
func generateSingleSession(userID string) Session {
	frame := make([]byte, frameBytesLen)
	_, _ = rand.Read(frame)

	// A voiced-speech-like waveform: base tone plus jitter, amplitude
	// varied per session so confidence and clarity scores spread out.
	amplitude := 0.2 + getRandomFloat()*0.6
	frequency := 80 + getRandomFloat()*160
	audio := make([]float64, audioSampleCount)
	for i := range audio {
		t := float64(i) / float64(audioSampleCount)
		audio[i] = amplitude*math.Sin(2*math.Pi*frequency*t) + (getRandomFloat()-0.5)*0.1
	}

	minutes := 5 + int(getRandomFloat()*40)
	seconds := int(getRandomFloat() * 60)

	typeIdx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(interviewTypes))))

	return Session{
		RequestID:   uuid.New().String(),
		InterviewID: uuid.New().String(),
		UserID:      userID,
		Type:        interviewTypes[typeIdx.Int64()],
		Duration:    fmt.Sprintf("0:%02d:%02d", minutes, seconds),
		Frame:       base64.StdEncoding.EncodeToString(frame),
		Audio:       audio,
	}
}
