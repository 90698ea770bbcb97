package simengine

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the market-simulation engine API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	secret     string
	debug      bool
}

// NewClient constructs a new engine client with sane defaults.
func NewClient(baseURL, apiKey, secret string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		secret:     secret,
		debug:      os.Getenv("ENV") == "development",
	}
}

// sign generates an HMAC-SHA256 hex digest over the request-specific data.
// sign = hmac_sha256(secret, apiKey + data)
func (c *Client) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(c.apiKey + data))
	return hex.EncodeToString(mac.Sum(nil))
}

// FetchRoundResults retrieves the computed results of a completed round.
// An engine still processing the round answers with status "processing" and
// an empty result list.
func (c *Client) FetchRoundResults(ctx context.Context, roundID int) (*ResultsResponse, error) {
	req := ResultsRequest{
		APIKey:  c.apiKey,
		RoundID: roundID,
		Sign:    c.sign(strconv.Itoa(roundID)),
	}
	var resp ResultsResponse
	if err := c.doRequest(ctx, "/results", req, &resp); err != nil {
		return nil, err
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("engine error: %s", resp.Message)
	}
	return &resp, nil
}

// GetStatus returns the engine's processing status.
func (c *Client) GetStatus(ctx context.Context) (*StatusResponse, error) {
	req := StatusRequest{
		APIKey: c.apiKey,
		Sign:   c.sign("status"),
	}
	var resp StatusResponse
	if err := c.doRequest(ctx, "/status", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs the HTTP POST to the engine API with JSON payloads and
// decodes the JSON response into result.
func (c *Client) doRequest(ctx context.Context, endpoint string, body any, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", payload).
			Msg("[SIMENGINE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[SIMENGINE] Incoming response")
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("engine returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
