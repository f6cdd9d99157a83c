// Package verifier wraps the external image-pair cleanup verification
// service. The engine treats it as a black box returning a verdict or a
// failure; a failed or timed-out call is a plain error on the request
// path, never a crash.
package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Verdict is the verification result for a before/after image pair.
type Verdict struct {
	SameScene         bool    `json:"same_scene"`
	CleanupSuccessful bool    `json:"cleanup_successful"`
	Confidence        float64 `json:"confidence"`
	Reason            string  `json:"short_reason"`
}

// CleanupVerifier compares a before/after image pair of a claimed
// cleanup site.
type CleanupVerifier interface {
	Verify(ctx context.Context, before, after []byte) (*Verdict, error)
}

// HTTPVerifier calls a remote verification service over HTTP.
type HTTPVerifier struct {
	client *resty.Client
}

// NewHTTP creates a verifier client for the given base URL with a
// bounded request timeout.
func NewHTTP(baseURL string, timeout time.Duration) *HTTPVerifier {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &HTTPVerifier{client: c}
}

// Verify uploads both images as multipart form data and decodes the
// verdict JSON.
func (v *HTTPVerifier) Verify(ctx context.Context, before, after []byte) (*Verdict, error) {
	resp, err := v.client.R().
		SetContext(ctx).
		SetFileReader("before", "before.jpg", bytes.NewReader(before)).
		SetFileReader("after", "after.jpg", bytes.NewReader(after)).
		Post("/verify")
	if err != nil {
		return nil, fmt.Errorf("verifier request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("verifier status %d: %s", resp.StatusCode(), resp.String())
	}
	var out Verdict
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	if out.Confidence < 0 || out.Confidence > 1 {
		return nil, fmt.Errorf("verifier confidence out of range: %f", out.Confidence)
	}
	return &out, nil
}

// HealthPing implements health.HealthPinger with a cheap GET against the
// service root.
func (v *HTTPVerifier) HealthPing(ctx context.Context) error {
	resp, err := v.client.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 500 {
		return fmt.Errorf("verifier status %d", resp.StatusCode())
	}
	return nil
}
