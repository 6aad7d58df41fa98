// Package notification provides an HTTP client for the delayed-notifier
// backend.
//
// It translates create, list and cancel operations into requests against
// the /api/notify/ endpoints and maps every failure onto one of the
// package's error kinds: ErrValidation, ErrTransport, ErrMalformedResponse,
// ErrNotFound or *BackendError.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/delayed-notifier-client/internal/model"
	"github.com/aliskhannn/delayed-notifier-client/internal/sendat"
)

const (
	notifyPath      = "/api/notify/"
	requestIDHeader = "X-Request-ID"
	maxBodySize     = 1 << 20
)

// Client issues requests against the delayed-notifier backend.
type Client struct {
	baseURL   string          // backend base URL without trailing slash
	client    *http.Client    // HTTP client used to make requests
	validator *validator.Validate
	strategy  retry.Strategy // retry strategy for idempotent requests
}

// NewClient creates a new Client for the backend at baseURL.
//
// A nil httpClient means http.DefaultClient. The strategy is applied to
// list and cancel requests on transport failures only; create is never
// retried.
func NewClient(baseURL string, httpClient *http.Client, v *validator.Validate, strategy retry.Strategy) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if v == nil {
		v = validator.New()
	}

	if strategy.Attempts < 1 {
		strategy.Attempts = 1
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    httpClient,
		validator: v,
		strategy:  strategy,
	}
}

// CreateRequest holds the parameters of a new notification.
type CreateRequest struct {
	Message string        `validate:"required"`
	SendAt  time.Time     `validate:"required"` // local point in time, encoded without zone conversion
	Retries int           `validate:"gte=0"`
	To      string        `validate:"required"`
	Channel model.Channel `validate:"required,oneof=telegram email"`
}

// createBody is the wire payload of POST /api/notify/.
type createBody struct {
	Message string        `json:"message"`
	SendAt  string        `json:"send_at"`
	Retries int           `json:"retries"`
	To      string        `json:"to"`
	Channel model.Channel `json:"channel"`
}

// listEnvelope is the wire payload of GET /api/notify/.
type listEnvelope struct {
	Result json.RawMessage `json:"result"`
}

// Create validates req and asks the backend to schedule a new notification.
func (c *Client) Create(ctx context.Context, req CreateRequest) error {
	if err := c.validate(req); err != nil {
		return err
	}

	body := createBody{
		Message: req.Message,
		SendAt:  sendat.Encode(req.SendAt),
		Retries: req.Retries,
		To:      req.To,
		Channel: req.Channel,
	}

	status, data, err := c.do(ctx, http.MethodPost, notifyPath, body)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if !isSuccess(status) {
		return fmt.Errorf("create notification: %w", newBackendError(status, data))
	}

	return nil
}

// List returns all notifications known to the backend, in backend order.
//
// A response whose result field is missing or not an array yields an
// empty list.
func (c *Client) List(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification

	err := c.withRetry(ctx, func() error {
		status, data, err := c.do(ctx, http.MethodGet, notifyPath, nil)
		if err != nil {
			return err
		}

		if !isSuccess(status) {
			return newBackendError(status, data)
		}

		notifications, err = decodeList(data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return notifications, nil
}

// Cancel asks the backend to cancel the notification with the given id.
func (c *Client) Cancel(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}

	err := c.withRetry(ctx, func() error {
		status, data, err := c.do(ctx, http.MethodDelete, notifyPath+url.PathEscape(id), nil)
		if err != nil {
			return err
		}

		switch {
		case isSuccess(status):
			return nil
		case status == http.StatusNotFound, status == http.StatusConflict, status == http.StatusGone:
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		default:
			return newBackendError(status, data)
		}
	})
	if err != nil {
		return fmt.Errorf("cancel notification: %w", err)
	}

	return nil
}

func (c *Client) validate(req CreateRequest) error {
	if err := c.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	if req.Channel == model.ChannelEmail {
		if err := c.validator.Var(req.To, "email"); err != nil {
			return fmt.Errorf("%w: invalid email address %q", ErrValidation, req.To)
		}
	}

	return nil
}

// do sends a single request and returns the status code and the body.
// Only failures to deliver the request or read the response are errors.
func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	zlog.Logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("backend request completed")

	return resp.StatusCode, data, nil
}

// withRetry runs fn under the client's strategy, retrying transport
// failures only. Any other outcome ends the loop and is returned as is.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var last error
	attempt := 0

	err := retry.Do(func() error {
		attempt++
		last = fn()

		if errors.Is(last, ErrTransport) && ctx.Err() == nil && attempt < c.strategy.Attempts {
			zlog.Logger.Warn().Err(last).Int("attempt", attempt).Msg("backend unreachable, retrying")
			return last
		}

		return nil
	}, c.strategy)
	if err != nil {
		return err
	}

	return last
}

func decodeList(data []byte) ([]model.Notification, error) {
	var env listEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	result := bytes.TrimSpace(env.Result)
	if len(result) == 0 || result[0] != '[' {
		return []model.Notification{}, nil
	}

	notifications := make([]model.Notification, 0)
	if err := json.Unmarshal(result, &notifications); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return notifications, nil
}

func newBackendError(status int, body []byte) *BackendError {
	return &BackendError{
		Status: status,
		Body:   strings.TrimSpace(string(body)),
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
