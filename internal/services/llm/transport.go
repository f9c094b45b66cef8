package llm

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

// ErrEmptyContent reports that the model answered without any text.
var ErrEmptyContent = errors.New("llm: empty content")

type statusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, e.Body)
}

type emptyContentError struct {
	Op           string
	FinishReason string
	Refusal      string
	Snippet      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, refusal=%q, response_snippet=%s)",
		e.Op, e.FinishReason, e.Refusal, e.Snippet)
}

func (e *emptyContentError) Unwrap() error { return ErrEmptyContent }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model          string            `json:"model"`
	Messages       []message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

func (c *Client) newRequest(temperature float64, system, user string) completionRequest {
	req := completionRequest{Model: c.cfg.Model, Temperature: temperature}
	if system != "" {
		req.Messages = append(req.Messages, message{Role: "system", Content: system})
	}
	req.Messages = append(req.Messages, message{Role: "user", Content: user})
	return req
}

type replyMessage struct {
	Content string `json:"content"`
	Refusal string `json:"refusal"`
}

type choice struct {
	Message replyMessage `json:"message"`
	// Some providers answer with the streaming shape even when stream=false.
	Delta        replyMessage `json:"delta"`
	Text         string       `json:"text"`
	FinishReason string       `json:"finish_reason"`
}

type completionResponse struct {
	Choices []choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (r completionResponse) text() string {
	for _, ch := range r.Choices {
		if text := firstNonEmpty(ch.Message.Content, ch.Delta.Content, ch.Text); text != "" {
			return text
		}
	}
	return ""
}

func (r completionResponse) finishReason() string {
	for _, ch := range r.Choices {
		if reason := strings.TrimSpace(ch.FinishReason); reason != "" {
			return reason
		}
	}
	return ""
}

func (r completionResponse) refusal() string {
	for _, ch := range r.Choices {
		if refusal := firstNonEmpty(ch.Message.Refusal, ch.Delta.Refusal); refusal != "" {
			return refusal
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// exchange posts req once and decodes the reply. The raw body is returned
// for error snippets.
func (c *Client) exchange(ctx context.Context, req completionRequest) (completionResponse, []byte, error) {
	var resp completionResponse
	body, err := json.Marshal(req)
	if err != nil {
		return resp, nil, fmt.Errorf("llm request: encode body: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return resp, nil, fmt.Errorf("llm request: new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		httpReq.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		httpReq.Header.Set("X-Title", c.cfg.Title)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return resp, nil, fmt.Errorf("llm request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer httpResp.Body.Close()
	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("llm request: read body: %w", err)
	}
	if httpResp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(httpResp.Header.Get("Retry-After"))
		return resp, raw, &statusError{
			StatusCode: httpResp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			RetryAfter: retryAfter,
		}
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return resp, raw, fmt.Errorf("llm request: decode response: %w", err)
	}
	if resp.Error != nil {
		return resp, raw, fmt.Errorf("llm request: api error: %s", strings.TrimSpace(resp.Error.Message))
	}
	return resp, raw, nil
}
