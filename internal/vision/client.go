package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Config describes the inference sidecar connection.
type Config struct {
	URL            string
	TimeoutSeconds int
}

// Client talks to the inference sidecar that hosts the person, face,
// emotion, and pose models.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// NewClient constructs a sidecar client.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured sidecar root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DetectObjects runs the general object detector over a JPEG frame.
func (c *Client) DetectObjects(ctx context.Context, jpeg []byte) ([]Detection, error) {
	var out struct {
		Detections []Detection `json:"detections"`
	}
	if err := c.postImage(ctx, "detect", "/detect", nil, jpeg, &out); err != nil {
		return nil, err
	}
	return out.Detections, nil
}

// DetectFaces returns face boxes whose confidence is at least minConfidence.
func (c *Client) DetectFaces(ctx context.Context, jpeg []byte, minConfidence float64) ([]Face, error) {
	var out struct {
		Faces []Face `json:"faces"`
	}
	if err := c.postImage(ctx, "faces", "/faces", confidenceQuery(minConfidence), jpeg, &out); err != nil {
		return nil, err
	}
	return out.Faces, nil
}

// ClassifyEmotion classifies the dominant emotion of a cropped face.
func (c *Client) ClassifyEmotion(ctx context.Context, jpeg []byte) (EmotionScores, error) {
	var out EmotionScores
	if err := c.postImage(ctx, "emotion", "/emotion", nil, jpeg, &out); err != nil {
		return EmotionScores{}, err
	}
	if strings.TrimSpace(out.Dominant) == "" {
		return EmotionScores{}, errors.New("emotion: response missing dominant_emotion")
	}
	return out, nil
}

// EstimatePose returns body landmarks for the most prominent person. ok is
// false when no pose cleared minConfidence in the frame.
func (c *Client) EstimatePose(ctx context.Context, jpeg []byte, minConfidence float64) (Pose, bool, error) {
	var out struct {
		Landmarks []Landmark `json:"landmarks"`
	}
	if err := c.postImage(ctx, "pose", "/pose", confidenceQuery(minConfidence), jpeg, &out); err != nil {
		return Pose{}, false, err
	}
	if len(out.Landmarks) == 0 {
		return Pose{}, false, nil
	}
	return Pose{Landmarks: out.Landmarks}, true, nil
}

// Health verifies the sidecar is reachable and its models are loaded.
func (c *Client) Health(ctx context.Context) error {
	if c.baseURL == "" {
		return errors.New("vision health: url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("vision health: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("vision health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vision health %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

func confidenceQuery(minConfidence float64) url.Values {
	if minConfidence <= 0 {
		return nil
	}
	return url.Values{"conf": {strconv.FormatFloat(minConfidence, 'f', -1, 64)}}
}

func (c *Client) postImage(ctx context.Context, op, path string, query url.Values, jpeg []byte, target any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%s: vision url not configured", op)
	}
	if len(jpeg) == 0 {
		return fmt.Errorf("%s: empty image", op)
	}
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	fw, err := w.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := fw.Write(jpeg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &b)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s", op, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%s decode: %w", op, err)
	}
	return nil
}
