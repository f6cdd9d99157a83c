// Package speech wraps the external text-to-speech collaborator
// (ElevenLabs-compatible API). Synthesis is a pure text -> audio bytes
// call with a bounded timeout.
package speech

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Synthesizer turns text into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Client calls an ElevenLabs-style HTTP API.
type Client struct {
	client  *resty.Client
	voiceID string
}

// New creates a speech client. apiKey is sent as the xi-api-key header
// on every request.
func New(baseURL, apiKey, voiceID string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("xi-api-key", apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Client{client: c, voiceID: voiceID}
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

// Synthesize returns mp3 bytes for the given text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text")
	}
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "audio/mpeg").
		SetBody(&synthesizeRequest{Text: text}).
		Post("/v1/text-to-speech/" + c.voiceID)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("speech status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("speech returned empty audio")
	}
	return resp.Body(), nil
}

// HealthPing implements health.HealthPinger by listing voices, the
// cheapest authenticated call the API offers.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.client.R().SetContext(ctx).Get("/v1/voices")
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 500 {
		return fmt.Errorf("speech status %d", resp.StatusCode())
	}
	return nil
}
