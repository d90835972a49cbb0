// Package api is the HTTP transport for the attendance view. It speaks the
// reference server's envelope format and implements domain.AttendanceGateway.
package api

import (
	"attendance/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// APIError is a non-2xx answer. Message is the server's `message` field, empty
// when the body had none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}

var ErrTransport = errors.New("attendance api unreachable")

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	token   func() string
	timeout time.Duration
	log     logrus.FieldLogger
}

type Option func(*Client)

// WithToken sets a fixed bearer credential.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = func() string { return token }
	}
}

// WithTokenSource asks fn for the credential on every request.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		c.token = fn
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   func() string { return "" },
		timeout: 15 * time.Second,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domain.AttendanceGateway = (*Client)(nil)

func filterQuery(filter domain.AttendanceFilter) url.Values {
	q := url.Values{}
	q.Set("date", filter.Date)
	if filter.ClassID != 0 {
		q.Set("classId", strconv.Itoa(filter.ClassID))
	}
	return q
}

func (c *Client) ListAttendance(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	if err := c.do(ctx, fiber.MethodGet, "/attendance", filterQuery(filter), nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) GetSummary(ctx context.Context, filter domain.AttendanceFilter) (*domain.AttendanceSummary, error) {
	var summary domain.AttendanceSummary
	if err := c.do(ctx, fiber.MethodGet, "/attendance/summary", filterQuery(filter), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) ListStudents(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	if err := c.do(ctx, fiber.MethodGet, "/students", nil, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) ListClasses(ctx context.Context) ([]domain.Class, error) {
	var classes []domain.Class
	if err := c.do(ctx, fiber.MethodGet, "/classes", nil, nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) CreateAttendance(ctx context.Context, payload domain.MarkPayload) (*domain.AttendanceRecord, error) {
	var record domain.AttendanceRecord
	if err := c.do(ctx, fiber.MethodPost, "/attendance", nil, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) CreateAttendanceBulk(ctx context.Context, payload domain.BulkPayload) (*domain.BulkResult, error) {
	var result domain.BulkResult
	if err := c.do(ctx, fiber.MethodPost, "/attendance/bulk", nil, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	requestID := uuid.NewString()
	log := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)

	agent.JSONEncoder(sonic.Marshal)
	agent.JSONDecoder(sonic.Unmarshal)
	agent.Timeout(c.timeout)
	agent.Set("X-Request-ID", requestID)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token := c.token(); token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		agent.JSON(body)
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	start := time.Now()
	code, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		log.WithError(errs[0]).Warn("request failed")
		return fmt.Errorf("%w: %v", ErrTransport, errors.Join(errs...))
	}
	log = log.WithFields(logrus.Fields{"status": code, "duration": time.Since(start).String()})

	var env envelope
	decodeErr := sonic.Unmarshal(raw, &env)

	if code < 200 || code >= 300 {
		log.Warn("request rejected")
		apiErr := &APIError{Status: code}
		if decodeErr == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s response: %w", path, decodeErr)
	}

	log.Debug("request completed")
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", path, err)
	}
	return nil
}

// UserMessage is the text to show the user verbatim, empty when the server
// sent none.
func (e *APIError) UserMessage() string {
	return e.Message
}
