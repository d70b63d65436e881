package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/accountfacade/internal/observability/context"
	obslogger "github.com/smallbiznis/accountfacade/internal/observability/logger"
	"github.com/smallbiznis/accountfacade/internal/observability/metrics"
	"github.com/smallbiznis/accountfacade/internal/observability/tracing"
	"github.com/smallbiznis/accountfacade/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	serviceName = "accounts"

	headerUserID = "X-User-Id"
)

// Client is safe for concurrent use. Per-call headers are set on each
// request; the underlying http.Client is shared and never modified.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	log         *zap.Logger
	metrics     *metrics.Metrics
}

type Options struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

func NewClient(opts Options, log *zap.Logger, m *metrics.Metrics) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL:     base,
		bearerToken: strings.TrimSpace(opts.BearerToken),
		httpClient:  httpClient,
		log:         log.Named("downstream.accounts"),
		metrics:     m,
	}, nil
}

// ListTeamMembers returns every user connected to the organisation.
func (c *Client) ListTeamMembers(ctx context.Context, organisationID uuid.UUID) ([]TeamMember, error) {
	path := "/api/organisations/" + organisationID.String() + "/users"

	var members []TeamMember
	if err := c.do(ctx, "list_team_members", http.MethodGet, path, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []TeamMember{}
	}
	return members, nil
}

// RemoveTeamMember disconnects a user from the organisation and returns the
// details of the removed user.
func (c *Client) RemoveTeamMember(ctx context.Context, organisationID, userID uuid.UUID) (RemovedMember, error) {
	path := "/api/organisations/" + organisationID.String() + "/users/" + userID.String()

	var removed RemovedMember
	if err := c.do(ctx, "remove_team_member", http.MethodDelete, path, &removed); err != nil {
		return RemovedMember{}, err
	}
	if removed.UserID == uuid.Nil {
		removed.UserID = userID
	}
	return removed, nil
}

func (c *Client) do(ctx context.Context, operation, method, path string, out any) (err error) {
	ctx, span := otel.Tracer("accountfacade/downstream").Start(ctx, serviceName+"."+operation)
	start := time.Now()
	defer func() {
		c.metrics.ObserveDownstream(serviceName, operation, err, time.Since(start))
		if err != nil {
			span.RecordError(tracing.SafeError(err))
			span.SetStatus(codes.Error, operation+" failed")
		}
		span.End()
	}()
	span.SetAttributes(tracing.SafeAttributes(
		attribute.String("http.method", method),
		attribute.String("downstream.operation", operation),
	)...)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.applyHeaders(ctx, req)

	log := obslogger.WithContext(ctx, c.log).With(
		zap.String("operation", operation),
		zap.String("method", method),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("downstream request failed", zap.Error(err))
		return fmt.Errorf("%w: %s: %v", ErrUpstream, operation, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	case resp.StatusCode >= http.StatusBadRequest:
		detail := readProblem(resp.Body)
		log.Warn("downstream returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("detail", detail),
		)
		return fmt.Errorf("%w: %s: status %d", ErrUpstream, operation, resp.StatusCode)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUpstream, operation, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %v", ErrUpstream, operation, err)
	}
	return nil
}

func (c *Client) applyHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}
	if userID := obscontext.UserIDFromContext(ctx); userID != "" {
		req.Header.Set(headerUserID, userID)
	}
	_, cid := correlation.EnsureCorrelationID(ctx)
	req.Header.Set(correlation.HeaderName, cid)
	tracing.InjectHeaders(ctx, req.Header)
}

func readProblem(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var problem problemDetails
	if err := json.Unmarshal(raw, &problem); err == nil {
		if problem.Detail != "" {
			return problem.Detail
		}
		if problem.Title != "" {
			return problem.Title
		}
	}
	return strings.TrimSpace(string(raw))
}
