package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verudex/Momentum-sub000/internal/telemetry/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrEmptyPrompt = errors.New("empty prompt")

// Client talks to the text generation service: plain text in, plain text
// out. One request per call, no retries, failures surface to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// EstimateCalories asks the service for a calorie estimate of the
// described meal.
func (c *Client) EstimateCalories(ctx context.Context, mealDescription string) (string, error) {
	return c.generate(ctx, "/generate/estimate", mealDescription)
}

// GeneratePlan asks the service for a workout plan matching the described
// goals.
func (c *Client) GeneratePlan(ctx context.Context, goals string) (string, error) {
	return c.generate(ctx, "/generate/plan", goals)
}

func (c *Client) generate(ctx context.Context, path, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "textgen.generate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if prompt == "" {
		return "", ErrEmptyPrompt
	}

	reqBytes, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBytes))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBytes)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBytes, &genResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	return genResp.Text, nil
}
