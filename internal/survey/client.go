package survey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spetersoncode/fieldwork/internal/retry"
)

// DefaultBaseURL is the production survey platform API root.
const DefaultBaseURL = "https://api.prolific.com/api/v1"

const defaultTimeout = 30 * time.Second

// Client is a survey platform API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      retry.Config
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API root, e.g. for a sandbox environment.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetry overrides the retry policy for idempotent requests.
// Use retry.Disabled() to turn retries off.
func WithRetry(cfg retry.Config) ClientOption {
	return func(c *Client) {
		c.retry = cfg
	}
}

// NewClient creates a survey platform client authenticated with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retry: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StudyStatus is a condensed view of a study's recruitment progress.
type StudyStatus struct {
	ID                   string   `json:"id"`
	Status               string   `json:"status"`
	TotalAvailablePlaces int      `json:"total_available_places"`
	PlacesTaken          int      `json:"places_taken"`
	CompletionRate       *float64 `json:"completion_rate"`
}

// listResponse is the paginated envelope the API wraps list endpoints in.
type listResponse struct {
	Results json.RawMessage `json:"results"`
}

// request performs one API call. GET requests are retried on transient
// failures; mutating requests get a single attempt.
func (c *Client) request(ctx context.Context, method, endpoint string, body any, query url.Values) (json.RawMessage, error) {
	if method == http.MethodGet {
		return retry.Do(ctx, c.retry, func() (json.RawMessage, error) {
			return c.do(ctx, method, endpoint, body, query)
		})
	}
	return c.do(ctx, method, endpoint, body, query)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       respBody,
		}
	}

	return respBody, nil
}

// CreateStudy creates a new draft study from the given configuration and
// returns the created study data.
func (c *Client) CreateStudy(ctx context.Context, config map[string]any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "studies/", config, nil)
}

// GetStudy returns the full study record.
func (c *Client) GetStudy(ctx context.Context, studyID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, "studies/"+studyID+"/", nil, nil)
}

// UpdateStudy applies a partial update to a study.
func (c *Client) UpdateStudy(ctx context.Context, studyID string, updates map[string]any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPatch, "studies/"+studyID+"/", updates, nil)
}

// LaunchStudy publishes a draft study, starting recruitment.
func (c *Client) LaunchStudy(ctx context.Context, studyID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "studies/"+studyID+"/transition/", map[string]any{"action": "PUBLISH"}, nil)
}

// Submissions returns the study's submissions, unwrapped from the
// paginated envelope.
func (c *Client) Submissions(ctx context.Context, studyID string) (json.RawMessage, error) {
	body, err := c.request(ctx, http.MethodGet, "studies/"+studyID+"/submissions/", nil, nil)
	if err != nil {
		return nil, err
	}
	return unwrapResults(body)
}

// StudyStatus returns a condensed view of the study's recruitment progress.
func (c *Client) StudyStatus(ctx context.Context, studyID string) (*StudyStatus, error) {
	body, err := c.GetStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	var status StudyStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse study: %w", err)
	}
	return &status, nil
}

// ListStudies returns the caller's studies, newest first. A limit of 0
// returns the platform default page size.
func (c *Client) ListStudies(ctx context.Context, limit int) (json.RawMessage, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	body, err := c.request(ctx, http.MethodGet, "studies/", nil, query)
	if err != nil {
		return nil, err
	}
	return unwrapResults(body)
}

// DeleteStudy deletes a study. Only draft studies can be deleted.
func (c *Client) DeleteStudy(ctx context.Context, studyID string) error {
	_, err := c.request(ctx, http.MethodDelete, "studies/"+studyID+"/", nil, nil)
	return err
}

// CreateTestParticipant creates a test participant account used to take
// studies in test mode without consuming credits. The email must not
// belong to an existing account.
func (c *Client) CreateTestParticipant(ctx context.Context, email string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "researchers/participants/", map[string]any{"email": email}, nil)
}

// LaunchTestStudy launches a draft study in test mode. At least one test
// participant must exist.
func (c *Client) LaunchTestStudy(ctx context.Context, studyID string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, "studies/"+studyID+"/test-study", nil, nil)
}

func unwrapResults(body []byte) (json.RawMessage, error) {
	var envelope listResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if envelope.Results == nil {
		return json.RawMessage("[]"), nil
	}
	return envelope.Results, nil
}
