package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGenerator calls a hosted text-generation inference endpoint.
type HTTPGenerator struct {
	URL     string
	Token   string
	Timeout time.Duration
	Client  *http.Client
}

// NewHTTPGenerator creates a remote generator. It is unavailable when url
// or token is empty.
func NewHTTPGenerator(url, token string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{URL: url, Token: token, Timeout: timeout, Client: http.DefaultClient}
}

func (g *HTTPGenerator) Name() string { return "remote" }

func (g *HTTPGenerator) Available() bool {
	return g.URL != "" && g.Token != ""
}

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	DoSample       bool    `json:"do_sample"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateResult struct {
	GeneratedText string `json:"generated_text"`
}

// Generate implements Generator.
func (g *HTTPGenerator) Generate(ctx context.Context, question string, data *Context) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{
		Inputs: prompt(question, data),
		Parameters: generateParameters{
			MaxNewTokens:   200,
			Temperature:    0.7,
			DoSample:       true,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.Token)

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return "", fmt.Errorf("generate request status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
	}

	var results []generateResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 || strings.TrimSpace(results[0].GeneratedText) == "" {
		return "", errors.New("empty generation")
	}
	return strings.TrimSpace(results[0].GeneratedText), nil
}

func prompt(question string, data *Context) string {
	return "You are a helpful assistant for an expense sharing app. " +
		"Answer using only the data below. Be concise and format amounts with $ and 2 decimals.\n\n" +
		"Data:\n" + data.Summary() + "\n\n" +
		"Question: " + question + "\n\nAnswer:"
}
