package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruiter-console/internal/domain"
	"recruiter-console/internal/logger"
)

const serviceName = "applications-api"

// ApplicationClient is the data access the board needs. The bearer token is
// passed on every call; the client holds no credential.
type ApplicationClient interface {
	ListApplications(ctx context.Context, token string) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, token, id string, status domain.ApplicationStatus) (*domain.Application, error)
	DeleteApplication(ctx context.Context, token, id string) error
}

type HTTPClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *HTTPClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    trimmed,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

type updateStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

// ListApplications fetches the recruiter's applications. A payload that is
// not a JSON array yields an empty list.
func (c *HTTPClient) ListApplications(ctx context.Context, token string) ([]domain.Application, error) {
	payload, err := c.do(ctx, "list", http.MethodGet, c.collectionURL(), token, nil)
	if err != nil {
		return nil, err
	}
	if !isArray(payload) {
		logger.Warn("Applications payload is not a list", "bytes", len(payload))
		return []domain.Application{}, nil
	}
	var apps []domain.Application
	if err := json.Unmarshal(payload, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

// UpdateStatus asks the API to move an application to status and returns the
// server's representation of the updated application.
func (c *HTTPClient) UpdateStatus(ctx context.Context, token, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	body, err := json.Marshal(updateStatusRequest{Status: status})
	if err != nil {
		return nil, fmt.Errorf("encode status request: %w", err)
	}
	payload, err := c.do(ctx, "update_status", http.MethodPut, c.itemURL(id), token, body)
	if err != nil {
		return nil, err
	}
	var app domain.Application
	if err := json.Unmarshal(payload, &app); err != nil {
		return nil, fmt.Errorf("decode application: %w", err)
	}
	return &app, nil
}

func (c *HTTPClient) DeleteApplication(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), token, nil)
	return err
}

func (c *HTTPClient) collectionURL() string {
	return c.baseURL + "/api/applications"
}

func (c *HTTPClient) itemURL(id string) string {
	return c.collectionURL() + "/" + url.PathEscape(id)
}

func (c *HTTPClient) do(ctx context.Context, operation, method, target, token string, body []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", operation, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.ExternalServiceCall(serviceName, operation, "method", method, "url", target, "request_id", requestID)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("send %s request: %w", operation, err)
		logger.ExternalServiceResult(serviceName, operation, err, "request_id", requestID)
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("read %s response: %w", operation, err)
		logger.ExternalServiceResult(serviceName, operation, err, "request_id", requestID)
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, payload)
		logger.ExternalServiceResult(serviceName, operation, apiErr, "request_id", requestID, "status", resp.StatusCode)
		return nil, apiErr
	}
	logger.ExternalServiceResult(serviceName, operation, nil, "request_id", requestID, "status", resp.StatusCode)
	return payload, nil
}

func isArray(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) > 0 && trimmed[0] == '['
}
