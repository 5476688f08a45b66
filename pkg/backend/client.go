package backend

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to the hosted backend's auth and storage REST endpoints.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	bucket     string
	logger     *zap.Logger
}

// Error is a failure reported by the backend itself. Message is shown to
// the user as-is.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// The auth and storage services disagree on the error body shape.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (b *errorBody) text() string {
	switch {
	case b.ErrorDescription != "":
		return b.ErrorDescription
	case b.Msg != "":
		return b.Msg
	case b.Message != "":
		return b.Message
	default:
		return b.Error
	}
}

func NewClient(baseURL, anonKey, bucket string, timeout time.Duration, logger *zap.Logger) *Client {
	// No retries: a failed call is reported to the user, who retries by hand.
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("apikey", anonKey).
		SetHeader("Accept", "application/json").
		SetAuthToken(anonKey)

	return &Client{
		httpClient: client,
		baseURL:    baseURL,
		bucket:     bucket,
		logger:     logger,
	}
}

func (c *Client) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error("Backend call failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call backend %s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}

	msg := http.StatusText(resp.StatusCode())
	if body, ok := resp.Error().(*errorBody); ok && body.text() != "" {
		msg = body.text()
	}
	c.logger.Warn("Backend returned error",
		zap.String("op", op),
		zap.Int("status_code", resp.StatusCode()),
		zap.String("msg", msg),
	)
	return &Error{StatusCode: resp.StatusCode(), Message: msg}
}
