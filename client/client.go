// Package client provides a typed client for the task API and a list
// controller that mirrors the browser UI's table state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"task-tracker/backend/internal/models"
)

var ErrNotFound = errors.New("task not found")

// APIError is a failure envelope reported by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

const defaultRequestTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient builds a client for the given base URL, e.g.
// "http://localhost:8989". The base URL is the one piece of
// configuration the controller needs.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListParams mirror the getTasks query parameters. Zero values are
// omitted from the query string so the server applies its defaults.
type ListParams struct {
	Status string
	Title  string
	SortBy string
	Order  string
	Limit  int
	Offset int
}

type ListResult struct {
	Tasks      []models.Task
	TotalCount int64
}

// TaskInput is the create/update payload; all three fields are
// required by the server.
type TaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type listEnvelope struct {
	Status     bool          `json:"status"`
	Message    string        `json:"message"`
	Rows       []models.Task `json:"rows"`
	TotalCount int64         `json:"totalCount"`
}

type itemEnvelope struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Rows    *models.Task `json:"rows"`
}

type createEnvelope struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Rows    []models.Task `json:"rows"`
}

type updateEnvelope struct {
	Status      bool        `json:"status"`
	Message     string      `json:"message"`
	UpdatedTask models.Task `json:"updatedTask"`
}

type statusEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func (c *Client) ListTasks(ctx context.Context, params ListParams) (ListResult, string, error) {
	query := url.Values{}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Title != "" {
		query.Set("title", params.Title)
	}
	if params.SortBy != "" {
		query.Set("sortBy", params.SortBy)
	}
	if params.Order != "" {
		query.Set("order", params.Order)
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}

	path := "/task/getTasks"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var envelope listEnvelope
	statusCode, err := c.do(ctx, http.MethodGet, path, nil, &envelope)
	if err != nil {
		return ListResult{}, "", err
	}
	if !envelope.Status {
		return ListResult{}, "", &APIError{StatusCode: statusCode, Message: envelope.Message}
	}

	return ListResult{Tasks: envelope.Rows, TotalCount: envelope.TotalCount}, envelope.Message, nil
}

func (c *Client) CreateTask(ctx context.Context, input TaskInput) (models.Task, string, error) {
	var envelope createEnvelope
	statusCode, err := c.do(ctx, http.MethodPost, "/task/createTask", input, &envelope)
	if err != nil {
		return models.Task{}, "", err
	}
	if !envelope.Status || len(envelope.Rows) == 0 {
		return models.Task{}, "", &APIError{StatusCode: statusCode, Message: envelope.Message}
	}

	return envelope.Rows[0], envelope.Message, nil
}

func (c *Client) GetTask(ctx context.Context, id uint) (models.Task, error) {
	var envelope itemEnvelope
	statusCode, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/task/getTask/%d", id), nil, &envelope)
	if err != nil {
		return models.Task{}, err
	}
	if statusCode == http.StatusNotFound || envelope.Rows == nil {
		return models.Task{}, ErrNotFound
	}
	if !envelope.Status {
		return models.Task{}, &APIError{StatusCode: statusCode, Message: envelope.Message}
	}

	return *envelope.Rows, nil
}

func (c *Client) UpdateTask(ctx context.Context, id uint, input TaskInput) (models.Task, string, error) {
	var envelope updateEnvelope
	statusCode, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/task/updateTask/%d", id), input, &envelope)
	if err != nil {
		return models.Task{}, "", err
	}
	if statusCode == http.StatusNotFound {
		return models.Task{}, envelope.Message, ErrNotFound
	}
	if !envelope.Status {
		return models.Task{}, "", &APIError{StatusCode: statusCode, Message: envelope.Message}
	}

	return envelope.UpdatedTask, envelope.Message, nil
}

// DeleteTask reports the server's outcome message; a missing row comes
// back as ErrNotFound because the server flags it with status=false
// while still answering 200.
func (c *Client) DeleteTask(ctx context.Context, id uint) (string, error) {
	var envelope statusEnvelope
	statusCode, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/task/deleteTask/%d", id), nil, &envelope)
	if err != nil {
		return "", err
	}
	if !envelope.Status {
		if envelope.Message == "Task not found" {
			return envelope.Message, ErrNotFound
		}
		return "", &APIError{StatusCode: statusCode, Message: envelope.Message}
	}

	return envelope.Message, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, dest interface{}) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.StatusCode, nil
}
