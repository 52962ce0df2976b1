// Package extract converts raw perception samples into normalized metric
// scores. Every function here is pure and deterministic for identical
// input, and every score it returns lies in [0,100].
package extract

import (
	"math"
	"sort"

	model "github.com/Nagaurav/MockInterview1/internal/domain/model"
)

// Extraction constants.
const (
	maxScore = 100

	// noseBridgeIndex is the landmark used as the between-the-eyes
	// reference point in a 68-point landmark set.
	noseBridgeIndex = 27

	// frameCenterX is the ideal horizontal position in normalized
	// frame coordinates.
	frameCenterX = 0.5

	// noiseFraction is the share of lowest-amplitude samples used to
	// estimate background noise power.
	noiseFraction = 0.1

	// crossingsPerSamples scales the zero-crossing count before
	// normalization.
	crossingsPerSamples = 1000
)

// Point is a 2D landmark position in normalized [0,1] frame coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FaceSample is one face-detection result from the perception provider.
type FaceSample struct {
	Landmarks   []Point            `json:"landmarks"`
	Expressions map[string]float64 `json:"expressions"`
}

// expressionWeights maps expression names to their engagement
// contribution. Unknown expressions contribute nothing.
var expressionWeights = map[string]float64{
	"happy":     1.0,
	"neutral":   0.7,
	"surprised": 0.5,
	"fearful":   -0.3,
	"sad":       -0.3,
	"angry":     -0.5,
	"disgusted": -0.5,
}

// normalize applies the shared scoring rule: scale to percent and clamp.
// All extractors funnel through this one function so threshold or scale
// changes stay consistent across metrics.
func normalize(v float64) float64 {
	return clamp(v * maxScore)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(maxScore, v))
}

// EyeContact scores how centered the face is in the frame, from the
// horizontal deviation of the nose-bridge landmark. A deviation of half
// the frame or more scores zero.
func EyeContact(s FaceSample) (float64, error) {
	if len(s.Landmarks) <= noseBridgeIndex {
		return 0, ErrNoDetection
	}
	deviation := math.Abs(s.Landmarks[noseBridgeIndex].X - frameCenterX)
	return normalize(1 - deviation*2), nil
}

// Engagement computes a weighted sum over expression probabilities,
// normalized by the total absolute weight actually used.
func Engagement(s FaceSample) (float64, error) {
	if len(s.Expressions) == 0 {
		return 0, ErrNoDetection
	}
	var score, totalWeight float64
	for name, prob := range s.Expressions {
		w := expressionWeights[name]
		if prob == 0 || w == 0 {
			continue
		}
		score += prob * w
		totalWeight += math.Abs(w)
	}
	if totalWeight == 0 {
		return 0, nil
	}
	return normalize(score / totalWeight), nil
}

// SpeechRate scores articulation pace from the zero-crossing density of
// the waveform.
func SpeechRate(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSignal
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0 && samples[i-1] < 0) || (samples[i] < 0 && samples[i-1] >= 0) {
			crossings++
		}
	}
	return normalize(float64(crossings) / float64(len(samples)) * crossingsPerSamples), nil
}

// Clarity scores the signal-to-noise ratio, estimating noise power from
// the quietest tenth of the waveform.
func Clarity(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSignal
	}
	signal := meanSquare(samples)
	noise := noisePower(samples)
	if noise == 0 {
		noise = 1
	}
	return normalize(signal / noise), nil
}

// Confidence scores amplitude variation: the standard deviation of
// absolute sample amplitude around its mean.
func Confidence(samples []float64) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSignal
	}
	var mean float64
	for _, v := range samples {
		mean += math.Abs(v)
	}
	mean /= float64(len(samples))

	var variance float64
	for _, v := range samples {
		d := math.Abs(v) - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return normalize(math.Sqrt(variance)), nil
}

func meanSquare(samples []float64) float64 {
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	return sum / float64(len(samples))
}

func noisePower(samples []float64) float64 {
	amps := make([]float64, len(samples))
	for i, v := range samples {
		amps[i] = math.Abs(v)
	}
	sort.Float64s(amps)
	n := int(float64(len(amps)) * noiseFraction)
	if n == 0 {
		return 0
	}
	return meanSquare(amps[:n])
}

// FaceScores runs both face extractors over one sample.
func FaceScores(s FaceSample) (map[model.Kind]float64, error) {
	eye, err := EyeContact(s)
	if err != nil {
		return nil, err
	}
	engagement, err := Engagement(s)
	if err != nil {
		return nil, err
	}
	return map[model.Kind]float64{
		model.KindEyeContact: eye,
		model.KindEngagement: engagement,
	}, nil
}

// AudioScores runs all audio extractors over one waveform.
func AudioScores(samples []float64) (map[model.Kind]float64, error) {
	rate, err := SpeechRate(samples)
	if err != nil {
		return nil, err
	}
	clarity, err := Clarity(samples)
	if err != nil {
		return nil, err
	}
	confidence, err := Confidence(samples)
	if err != nil {
		return nil, err
	}
	return map[model.Kind]float64{
		model.KindSpeechRate: rate,
		model.KindClarity:    clarity,
		model.KindConfidence: confidence,
	}, nil
}
