// Package vision provides a client for the Moondream vision API: free-form
// questions about screenshots and element location as normalized coordinates.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Gaikarak/AstroVision-Andromator/pkg/core"
	"github.com/Gaikarak/AstroVision-Andromator/pkg/logger"
)

const (
	defaultBaseURL = "https://api.moondream.ai/v1"
	requestTimeout = 15 * time.Second
	maxRetries     = 3
	retryInterval  = 1 * time.Second
)

// Recorder receives notifications about API usage. Implemented by
// stats.Tracker; a nil recorder disables tracking.
type Recorder interface {
	RecordQueryCall()
	RecordPointCall()
	RecordReasoningCall()
	RecordDetection(source string)
}

// Client talks to the vision API.
type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	recorder Recorder
}

// NewClient creates a vision client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

// SetBaseURL overrides the API base URL. Used for self-hosted servers
// and tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// SetRecorder sets the usage recorder.
func (c *Client) SetRecorder(r Recorder) {
	c.recorder = r
}

type queryRequest struct {
	Image    string `json:"image"`
	Question string `json:"question"`
}

type queryResponse struct {
	Answer string `json:"answer"`
}

type pointRequest struct {
	Image  string `json:"image"`
	Object string `json:"object"`
}

// request posts a JSON payload and retries transient failures.
// 4xx responses are not retried; they indicate a bad request or key.
func (c *Client) request(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var respBody []byte
	operation := func() error {
		start := time.Now()

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.http.Do(req)
		elapsed := time.Since(start)
		if err != nil {
			logger.Warn("vision %s [%v] ERROR: %v", path, elapsed, err)
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		logger.Debug("vision %s [%v] status=%d", path, elapsed, resp.StatusCode)

		if resp.StatusCode >= 400 {
			err := fmt.Errorf("vision API %s: status %d: %s", path, resp.StatusCode, string(data))
			if resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		respBody = data
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetries-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, core.ErrVisionUnavailable.WithCause(err)
	}

	return respBody, nil
}

// Query asks a free-form question about the screenshot.
func (c *Client) Query(ctx context.Context, image []byte, question string) (string, error) {
	encoded, err := OptimizeImage(image)
	if err != nil {
		return "", err
	}

	if c.recorder != nil {
		c.recorder.RecordQueryCall()
	}

	data, err := c.request(ctx, "/query", queryRequest{
		Image:    encoded,
		Question: question,
	})
	if err != nil {
		return "", err
	}

	var resp queryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", core.ErrVisionUnavailable.WithCause(err)
	}
	if resp.Answer == "" {
		return "", core.ErrEmptyAnswer
	}

	return resp.Answer, nil
}

// Locate finds an element and returns its normalized coordinates.
// Returns core.ErrElementNotFound when the API reports no location.
func (c *Client) Locate(ctx context.Context, image []byte, object string) (*core.Point, error) {
	encoded, err := OptimizeImage(image)
	if err != nil {
		return nil, err
	}

	if c.recorder != nil {
		c.recorder.RecordPointCall()
	}

	data, err := c.request(ctx, "/point", pointRequest{
		Image:  encoded,
		Object: object,
	})
	if err != nil {
		return nil, err
	}

	pt, err := parsePoint(data)
	if err != nil {
		return nil, err
	}
	if pt == nil {
		return nil, core.ErrElementNotFound.WithMessage(
			fmt.Sprintf("%q not found on screen", object))
	}
	if !pt.Valid() {
		return nil, core.ErrInvalidCoordinates.WithMessage(
			fmt.Sprintf("point (%.3f, %.3f) outside [0, 1]", pt.X, pt.Y))
	}

	if c.recorder != nil {
		c.recorder.RecordDetection("vision")
	}
	logger.Info("located %q at (%.3f, %.3f)", object, pt.X, pt.Y)

	return pt, nil
}

// parsePoint handles the two response shapes the API produces: a bare
// [x, y] pair and an {x, y} object, either at "point" or first in "points".
func parsePoint(data []byte) (*core.Point, error) {
	var arrResp struct {
		Point []float64 `json:"point"`
	}
	if err := json.Unmarshal(data, &arrResp); err == nil && len(arrResp.Point) == 2 {
		return &core.Point{X: arrResp.Point[0], Y: arrResp.Point[1]}, nil
	}

	var objResp struct {
		Point  *core.Point  `json:"point"`
		Points []core.Point `json:"points"`
	}
	if err := json.Unmarshal(data, &objResp); err != nil {
		return nil, core.ErrVisionUnavailable.WithCause(err)
	}
	if objResp.Point != nil {
		return objResp.Point, nil
	}
	if len(objResp.Points) > 0 {
		return &objResp.Points[0], nil
	}

	return nil, nil
}
