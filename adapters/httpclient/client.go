// Package httpclient implements ports.PressService against the dashboard API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"presshealth/domain/core"
	"presshealth/domain/press"
	"presshealth/internal/errors"
	"presshealth/internal/report"
	"presshealth/ports"
)

// Config holds client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig targets a local server
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080",
		Timeout: 60 * time.Second,
	}
}

// Client talks to the press dashboard server
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client; an empty BaseURL falls back to the default
func New(config Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultConfig().BaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: config.Timeout},
	}
}

var _ ports.PressService = (*Client)(nil)

// Upload posts a file as multipart field "file"
func (c *Client) Upload(ctx context.Context, filename string, file io.Reader) (*press.UploadResult, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	var result press.UploadResult
	if err := c.do(ctx, http.MethodPost, "/upload", w.FormDataContentType(), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) FetchPressData(ctx context.Context, filename string, sn int) (*press.PressData, error) {
	var data press.PressData
	if err := c.postJSON(ctx, "/get_press_data", press.PressDataRequest{Filename: filename, SN: sn}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) ProcessData(ctx context.Context, req press.ProcessRequest) (*press.ProcessResult, error) {
	var result press.ProcessResult
	if err := c.postJSON(ctx, "/process_data", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ErrorStats(ctx context.Context, rows []press.Row) (*press.ErrorStats, error) {
	var stats press.ErrorStats
	if err := c.postJSON(ctx, "/api/error_stats", press.ErrorStatsRequest{SessionData: rows}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchReport downloads the rendered report of an upload
func (c *Client) FetchReport(ctx context.Context, filename string, format report.Format) ([]byte, error) {
	path := "/api/report/" + url.PathEscape(filename) + "?format=" + url.QueryEscape(string(format))
	var raw []byte
	if err := c.do(ctx, http.MethodGet, path, "", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Uploads lists the uploads stored on the server
func (c *Client) Uploads(ctx context.Context, limit int) ([]*press.Upload, error) {
	var resp struct {
		Uploads []*press.Upload `json:"uploads"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/uploads?limit=%d", limit), "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Uploads, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(raw), out)
}

// do sends one request. out may be *[]byte to receive the raw body.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.ExternalServiceError("press", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}

	if b, ok := out.(*[]byte); ok {
		*b = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// decodeError turns an {error, code} body back into an AppError
func decodeError(status int, body []byte) error {
	message := gjson.GetBytes(body, "error").String()
	if message == "" {
		message = fmt.Sprintf("server returned %d: %s", status, strings.TrimSpace(string(body)))
	}
	code := gjson.GetBytes(body, "code").String()
	if code == "" {
		code = codeForStatus(status)
	}

	appErr := &errors.AppError{Code: code, Message: message}
	if code == errors.CodeNotFound {
		appErr.Cause = core.ErrNotFound
	}
	return appErr
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return errors.CodeNotFound
	case http.StatusBadRequest:
		return errors.CodeInvalidInput
	case http.StatusRequestEntityTooLarge:
		return errors.CodePayloadTooLarge
	default:
		return errors.CodeExternalService
	}
}
