package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"ragqa/internal/domain"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

const (
	uploadPath = "/api/upload"
	queryPath  = "/api/query"
	healthPath = "/api/health"

	// error bodies are shown to the user, keep them short
	maxErrorBody = 1024
)

// Client talks to the indexing and question-answering endpoints.
// It implements domain.UploadService and domain.QueryService.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Config configures the HTTP client.
type Config struct {
	BaseURL string
	// Timeout of zero leaves requests unbounded.
	Timeout time.Duration
	Logger  *slog.Logger
}

// New creates a client for the given configuration.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

// BaseURL returns the resolved endpoint root.
func (c *Client) BaseURL() string { return c.baseURL }

type uploadResponse struct {
	DocID    string `json:"docId"`
	Filename string `json:"filename"`
	Pages    *int   `json:"pages"`
}

// Submit uploads a document as multipart form field "file".
func (c *Client) Submit(ctx context.Context, data []byte, filename string) (domain.DocumentRecord, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("close multipart writer: %w", err)
	}

	payload, err := c.post(ctx, "Upload", uploadPath, mw.FormDataContentType(), &body)
	if err != nil {
		return domain.DocumentRecord{}, err
	}

	var out uploadResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("Upload failed: %w: %v", domain.ErrMalformedResponse, err)
	}
	if out.DocID == "" {
		return domain.DocumentRecord{}, fmt.Errorf("Upload failed: %w: missing docId", domain.ErrMalformedResponse)
	}
	rec := domain.DocumentRecord{
		ID:        mo.Some(out.DocID),
		Filename:  out.Filename,
		PageCount: mo.None[int](),
	}
	if out.Pages != nil {
		rec.PageCount = mo.Some(*out.Pages)
	}
	return rec, nil
}

type queryRequest struct {
	DocID    string `json:"docId"`
	Question string `json:"question"`
}

// Ask sends a question about documentID and returns the normalized answer.
func (c *Client) Ask(ctx context.Context, documentID, question string) (domain.QueryResult, error) {
	data, err := json.Marshal(queryRequest{DocID: documentID, Question: question})
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("marshal query: %w", err)
	}
	payload, err := c.post(ctx, "Query", queryPath, "application/json", bytes.NewReader(data))
	if err != nil {
		return domain.QueryResult{}, err
	}
	return DecodeQueryResult(payload), nil
}

// Health calls the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	_, err = c.do(req, "Health")
	return err
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, op)
}

// do executes req and returns the body of a 2xx response.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	reqID := uuid.New().String()
	req.Header.Set("X-Request-ID", reqID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			"op", op,
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", reqID,
			"error", err,
		)
		return nil, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.log.Info("request",
		"op", op,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", reqID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		body := string(respBody)
		if readErr != nil {
			c.log.Warn("read error body", "op", op, "request_id", reqID, "error", readErr)
			body = strings.TrimSpace(body + " (read body: " + readErr.Error() + ")")
		}
		return nil, &domain.ServiceError{Op: op, StatusCode: resp.StatusCode, Body: body}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return payload, nil
}
