package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

type restClient struct {
	client *resty.Client
	logger Logger
}

// apiError is the error body returned by the API.
type apiError struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func newRestClient(baseURL string, logger Logger, opts *options) (*restClient, error) {
	if baseURL == "" {
		return nil, errors.New("base URL must be set")
	}

	if logger == nil {
		logger = noopLogger{}
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(opts.requestTimeout).
		SetRetryCount(opts.retryCount).
		SetRetryWaitTime(opts.retryWaitTime).
		SetRetryMaxWaitTime(opts.retryMaxWaitTime).
		AddRetryCondition(retryPolicy).
		SetLogger(&restyLogger{logger: logger})

	return &restClient{
		client: client,
		logger: logger,
	}, nil
}

// retryPolicy retries connection errors, rate limited requests and server errors. Other client errors
// will not succeed on a second attempt.
func retryPolicy(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}

	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
}

func (r *restClient) ping(ctx context.Context) error {
	response, err := r.client.R().
		SetContext(ctx).
		Get("/ping")
	if err != nil {
		return fmt.Errorf("GET /ping failed: %w", err)
	}

	if !response.IsSuccess() {
		return fmt.Errorf("GET /ping failed with status code %d", response.StatusCode())
	}

	return nil
}

// postJSON posts body to path and decodes a successful response into result.
func (r *restClient) postJSON(ctx context.Context, path string, body []byte, result any) error {
	response, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(body).
		SetResult(result).
		SetError(&apiError{}).
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s failed: %w", path, err)
	}

	if !response.IsSuccess() {
		return &StatusError{
			Path:       path,
			StatusCode: response.StatusCode(),
			Message:    errorMessage(response),
		}
	}

	r.logger.Debugf("POST %s succeeded with status code %d", path, response.StatusCode())

	return nil
}

func errorMessage(response *resty.Response) string {
	if apiErr, ok := response.Error().(*apiError); ok && apiErr.Error != "" {
		return apiErr.Error
	}

	if body := strings.TrimSpace(string(response.Body())); body != "" {
		return body
	}

	return "(empty error body)"
}
