// Package backend is the client of the hostel REST API.
//
// Every endpoint answers with the envelope {success, data, message}; callers
// only branch on success. The client turns the three failure shapes (transport
// error, non-2xx status, success=false) into failure.Failure values whose
// message is what the desk shows to the operator.
package backend

//go:generate go run go.uber.org/mock/mockgen -source=./backend.go -destination=./mocks/backend_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hostel/config"
	"hostel/infras/metrics"
	"hostel/infras/otel"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/session"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "backend"

	MessageUnreachable = "Unable to reach the hostel service."

	maxErrorBodyBytes = 64 << 10
)

// Pagination is the page metadata returned by list endpoints.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Envelope is the response shape shared by every endpoint.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Request describes one call. Name labels metrics and spans; Fallback is the
// message shown when the backend fails without saying why.
type Request struct {
	Name     string
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Fallback string
}

type Client interface {
	Do(ctx context.Context, sess session.Session, req Request) (Envelope, error)
}

type client struct {
	baseURL string
	http    *http.Client
	otel    otel.Otel
}

func New(cfg *config.Config, ot otel.Otel) Client {
	timeout := time.Duration(cfg.Backend.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return NewWithHTTPClient(cfg.Backend.BaseURL, &http.Client{Timeout: timeout}, ot)
}

func NewWithHTTPClient(baseURL string, hc *http.Client, ot otel.Otel) Client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		otel:    ot,
	}
}

func (c *client) Do(ctx context.Context, sess session.Session, req Request) (env Envelope, err error) {
	ctx, scope := c.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+req.Name)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	started := time.Now()
	scope.SetAttributes(map[string]any{
		"backend.endpoint": req.Name,
		"http.method":      req.Method,
		"http.path":        req.Path,
	})

	httpReq, err := c.newRequest(ctx, sess, req)
	if err != nil {
		metrics.ObserveBackend(req.Name, req.Method, metrics.OutcomeInvalid, started)

		return env, failure.InternalError(err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.ObserveBackend(req.Name, req.Method, metrics.OutcomeUnreachable, started)

		if ctxErr := ctx.Err(); ctxErr != nil {
			return env, fmt.Errorf("%s: %w", req.Name, ctxErr)
		}

		log.Error().Err(err).Str("endpoint", req.Name).Str("path", req.Path).Msg("hostel backend unreachable")

		return env, failure.Unreachable(MessageUnreachable)
	}
	defer resp.Body.Close()

	scope.SetAttribute("http.status_code", resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.ObserveBackend(req.Name, req.Method, metrics.OutcomeHTTPError, started)

		return env, httpFailure(resp, req.Fallback)
	}

	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		metrics.ObserveBackend(req.Name, req.Method, metrics.OutcomeRejected, started)
		log.Error().Err(err).Str("endpoint", req.Name).Msg("failed to decode hostel backend response")

		return Envelope{}, failure.Rejected(fallbackOr(req.Fallback, serverError(resp.StatusCode)))
	}

	if !env.Success {
		metrics.ObserveBackend(req.Name, req.Method, metrics.OutcomeRejected, started)

		return env, failure.Rejected(fallbackOr(env.Message, req.Fallback))
	}

	metrics.ObserveBackend(req.Name, req.Method, metrics.OutcomeSuccess, started)

	return env, nil
}

func (c *client) newRequest(ctx context.Context, sess session.Session, req Request) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}

		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, values := range sess.AuthHeaders() {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	httpReq.Header.Set(constant.RequestHeaderAccept, constant.ContentTypeJSON)
	if body != nil {
		httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	}

	requestID, _ := ctx.Value(constant.ContextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	httpReq.Header.Set(constant.RequestHeaderRequestID, requestID)

	return httpReq, nil
}

// httpFailure prefers the message of a JSON error body and falls back to
// "Server error: {status} {statusText}" when the body is not JSON.
func httpFailure(resp *http.Response, fallback string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var body struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return failure.Upstream(resp.StatusCode, serverError(resp.StatusCode))
	}

	if body.Message != "" {
		return failure.Upstream(resp.StatusCode, body.Message)
	}

	return failure.Upstream(resp.StatusCode, fallbackOr(fallback, serverError(resp.StatusCode)))
}

func serverError(code int) string {
	return fmt.Sprintf("Server error: %d %s", code, http.StatusText(code))
}

func fallbackOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}

	return fallback
}

// Decode unmarshals the envelope data into T. An absent data field yields the zero value.
func Decode[T any](env Envelope) (T, error) {
	var out T

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return out, nil
	}

	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, failure.Rejected(fmt.Sprintf("Unexpected response from the hostel service: %v", err))
	}

	return out, nil
}

// Expand fills {name} placeholders of a configured path template.
func Expand(template string, params map[string]string) string {
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", url.PathEscape(value))
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

// IsCanceled reports whether err comes from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
