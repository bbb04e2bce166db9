// Package api talks to the Selecionei backend over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"selecionei-client/models"

	"github.com/google/uuid"
)

const (
	DefaultBaseURL  = "http://localhost:5001/api"
	defaultTimeout  = 60 * time.Second
	maxResponseBody = 16 << 20
)

// ErrTransport marks failures where no usable response was received:
// network errors, timeouts and bodies that are not the expected JSON.
var ErrTransport = errors.New("transport failure")

// ResponseError is a structured failure: the backend answered with success=false
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return e.Message
}

// envelope is the superset of every response body the backend sends
type envelope struct {
	Success    bool                     `json:"success"`
	Error      string                   `json:"error"`
	User       *models.Identity         `json:"user"`
	Plans      models.PlanCatalog       `json:"plans"`
	Analysis   *models.AnalysisResult   `json:"analysis"`
	Analyses   []models.AnalysisSummary `json:"analyses"`
	Payments   []models.PaymentRecord   `json:"payments"`
	PaymentURL string                   `json:"payment_url"`
	Processing *float64                 `json:"processing_time"`
}

// Client calls the backend endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   uuid.UUID
}

// ClientOption is a functional option for Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithClientID sets the installation id sent with every request
func WithClientID(id uuid.UUID) ClientOption {
	return func(c *Client) {
		c.clientID = id
	}
}

// NewClient creates a backend client rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		clientID:   uuid.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health pings GET /health
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil, "")
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))

	if resp.StatusCode != http.StatusOK {
		return &ResponseError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Stats fetches GET /stats. The endpoint has no success flag.
func (c *Client) Stats(ctx context.Context) (*models.PlatformStats, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/stats", nil, "")
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{StatusCode: resp.StatusCode}
	}

	var stats models.PlatformStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("%w: failed to decode stats: %w", ErrTransport, err)
	}
	return &stats, nil
}

// Plans fetches GET /plans
func (c *Client) Plans(ctx context.Context) (models.PlanCatalog, error) {
	env, err := c.doJSON(ctx, http.MethodGet, "/plans", nil)
	if err != nil {
		return nil, err
	}
	if env.Plans == nil {
		return models.PlanCatalog{}, nil
	}
	return env.Plans, nil
}

// Login posts the credentials to POST /login
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/login", creds)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%w: login response without user", ErrTransport)
	}
	return env.User, nil
}

// Register posts a new account to POST /register
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.Identity, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/register", reg)
	if err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, fmt.Errorf("%w: register response without user", ErrTransport)
	}
	return env.User, nil
}

// Analyze submits a résumé to POST /analyze as multipart form data
func (c *Client) Analyze(ctx context.Context, sub models.AnalysisSubmission) (*models.AnalysisResult, error) {
	if sub.File == nil {
		return nil, errors.New("analysis submission without file")
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, sub.File.Filename))
	contentType := sub.File.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, sub.File.Reader()); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := mw.WriteField("job_description", sub.JobDescription); err != nil {
		return nil, fmt.Errorf("failed to write job_description: %w", err)
	}
	if sub.UserID != nil {
		if err := mw.WriteField("user_id", strconv.FormatInt(*sub.UserID, 10)); err != nil {
			return nil, fmt.Errorf("failed to write user_id: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/analyze", body, mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	env, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if env.Analysis == nil {
		return nil, fmt.Errorf("%w: analyze response without analysis", ErrTransport)
	}

	result := env.Analysis
	if result.ProcessingTime == nil && env.Processing != nil {
		result.ProcessingTime = env.Processing
	}
	return result, nil
}

// UserAnalyses fetches GET /user/{id}/analyses
func (c *Client) UserAnalyses(ctx context.Context, userID int64) ([]models.AnalysisSummary, error) {
	env, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/user/%d/analyses", userID), nil)
	if err != nil {
		return nil, err
	}
	if env.Analyses == nil {
		return []models.AnalysisSummary{}, nil
	}
	return env.Analyses, nil
}

// UserPayments fetches GET /user/{id}/payments
func (c *Client) UserPayments(ctx context.Context, userID int64) ([]models.PaymentRecord, error) {
	env, err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/user/%d/payments", userID), nil)
	if err != nil {
		return nil, err
	}
	if env.Payments == nil {
		return []models.PaymentRecord{}, nil
	}
	return env.Payments, nil
}

// CreatePayment asks POST /payment/create for a checkout redirect URL
func (c *Client) CreatePayment(ctx context.Context, preq models.PaymentRequest) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/payment/create", preq)
	if err != nil {
		return "", err
	}
	if env.PaymentURL == "" {
		return "", fmt.Errorf("%w: payment response without payment_url", ErrTransport)
	}
	return env.PaymentURL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("X-Client-ID", c.clientID.String())
	return req, nil
}

// do sends the request and sorts the outcome into success, structured
// failure or transport failure
func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response (status %d): %w", ErrTransport, resp.StatusCode, err)
	}

	if !env.Success {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}
