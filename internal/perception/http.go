package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultHTTPTimeout = 30 * time.Second

// HTTPProvider implements Provider against a remote perception service
// exposing POST /detect and POST /transcribe.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// HTTPOption applies a configuration option to the HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// NewHTTPProvider creates a provider client for the given base URL.
func NewHTTPProvider(baseURL string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type detectResponse struct {
	Detected  bool          `json:"detected"`
	Detection FaceDetection `json:"detection"`
}

// DetectFace posts one encoded frame to the service.
func (p *HTTPProvider) DetectFace(ctx context.Context, frame []byte) (FaceDetection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/detect", bytes.NewReader(frame))
	if err != nil {
		return FaceDetection{}, fmt.Errorf("detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := p.client.Do(req)
	if err != nil {
		return FaceDetection{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return FaceDetection{}, fmt.Errorf("detect %s: %s", resp.Status, string(body))
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return FaceDetection{}, fmt.Errorf("detect decode: %w", err)
	}
	if !out.Detected {
		return FaceDetection{}, ErrNoDetection
	}
	return out.Detection, nil
}

type transcribeRequest struct {
	Samples []float64 `json:"samples"`
}

// Transcribe posts one waveform to the service.
func (p *HTTPProvider) Transcribe(ctx context.Context, samples []float64) (Transcript, error) {
	b, _ := json.Marshal(transcribeRequest{Samples: samples})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transcribe", bytes.NewReader(b))
	if err != nil {
		return Transcript{}, fmt.Errorf("transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Transcript{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Transcript{}, fmt.Errorf("transcribe %s: %s", resp.Status, string(body))
	}

	var out Transcript
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Transcript{}, fmt.Errorf("transcribe decode: %w", err)
	}
	return out, nil
}
