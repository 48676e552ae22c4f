// Package llm talks to an OpenAI compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
	DefaultTimeout     = 60 * time.Second
)

type Client struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	HTTP        *http.Client
	Log         zerolog.Logger
}

func New(apiKey string) *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		Model:       DefaultModel,
		APIKey:      apiKey,
		Temperature: DefaultTemperature,
		HTTP:        &http.Client{Timeout: DefaultTimeout},
		Log:         zerolog.Nop(),
	}
}

// Request is a single system + user prompt exchange.
type Request struct {
	System    string
	User      string
	JSON      bool
	MaxTokens int
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) body(r Request) ([]byte, error) {
	req := chatRequest{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: r.System},
			{Role: "user", Content: r.User},
		},
		Temperature: c.Temperature,
		MaxTokens:   r.MaxTokens,
	}
	if r.JSON {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	return json.Marshal(req)
}

// Complete sends r and returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, r Request) (string, error) {
	if c.APIKey == "" {
		return "", ErrCredentialMissing
	}

	body, err := c.body(r)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	c.Log.Debug().Str("model", c.Model).Str("endpoint", endpoint).Msg("llm request")
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading llm response: %w", err)
	}
	c.Log.Debug().
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("llm response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		var e errorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error.Message != "" {
			msg = e.Error.Message
		}
		return "", &HTTPError{Status: resp.StatusCode, Message: msg}
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", Malformed(string(respBody), err)
	}
	if len(cr.Choices) == 0 || strings.TrimSpace(cr.Choices[0].Message.Content) == "" {
		return "", Malformed(string(respBody), errors.New("no content in reply"))
	}

	return cr.Choices[0].Message.Content, nil
}

var codeFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// StripFences removes a surrounding markdown code block.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// DecodeObject parses content as a single JSON object into v. Anything else
// is reported as a MalformedResponseError.
func DecodeObject(content string, v any) error {
	c := StripFences(content)
	if !strings.HasPrefix(c, "{") {
		return Malformed(content, errors.New("reply is not a JSON object"))
	}
	if err := json.Unmarshal([]byte(c), v); err != nil {
		return Malformed(content, err)
	}
	return nil
}
