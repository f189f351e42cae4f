package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mediavault/internal/core/domain"
	"net/http"
	"net/url"
	"strings"
)

// APIError is a non 2xx answer of the upload API
type APIError struct {
	StatusCode int
	Message    string
	Missing    []int
	Duplicates []int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upload api: %d %s", e.StatusCode, e.Message)
}

// HTTPClient talks to the /api/v1 upload and file record endpoints and
// puts bytes straight to presigned storage URLs
type HTTPClient struct {
	baseURL string
	ownerID string
	client  *http.Client
}

// NewHTTPClient creates HTTPClient, baseURL is the server root (e.g. http://localhost:8080)
func NewHTTPClient(baseURL string, ownerID string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/") + "/api/v1", ownerID: ownerID, client: client}
}

type presignSimpleRequest struct {
	FileName string `json:"fileName"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

type presignSimpleResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

func (c *HTTPClient) PresignSimple(ctx context.Context, name string, contentType string, size int64) (*SimpleTarget, error) {
	var resp presignSimpleResponse
	req := presignSimpleRequest{FileName: name, Type: contentType, Size: size}
	if err := c.do(ctx, http.MethodPost, "/upload/presigned-simple", req, &resp); err != nil {
		return nil, err
	}
	return &SimpleTarget{URL: resp.UploadURL, Key: resp.Key}, nil
}

type createSessionRequest struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
}

type createSessionResponse struct {
	UploadID   string `json:"uploadId"`
	Key        string `json:"key"`
	TotalParts int    `json:"totalParts"`
	PartSize   int64  `json:"partSize"`
}

func (c *HTTPClient) CreateSession(ctx context.Context, name string, contentType string, size int64) (*Session, error) {
	var resp createSessionResponse
	req := createSessionRequest{Filename: name, Type: contentType, Size: size}
	if err := c.do(ctx, http.MethodPost, "/upload/multipart-create", req, &resp); err != nil {
		return nil, err
	}
	return &Session{UploadID: resp.UploadID, Key: resp.Key, TotalParts: resp.TotalParts, PartSize: resp.PartSize}, nil
}

type signPartRequest struct {
	Key        string `json:"key"`
	UploadID   string `json:"uploadId"`
	PartNumber int    `json:"partNumber"`
}

type signPartResponse struct {
	URL string `json:"url"`
}

func (c *HTTPClient) SignPart(ctx context.Context, key string, uploadID string, partNumber int) (string, error) {
	var resp signPartResponse
	req := signPartRequest{Key: key, UploadID: uploadID, PartNumber: partNumber}
	if err := c.do(ctx, http.MethodPost, "/upload/multipart-sign-part", req, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

type completedPart struct {
	ETag string `json:"etag"`
	Part int    `json:"part"`
}

type completeRequest struct {
	Key      string          `json:"key"`
	UploadID string          `json:"uploadId"`
	Parts    []completedPart `json:"parts"`
}

func (c *HTTPClient) Complete(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) error {
	req := completeRequest{Key: key, UploadID: uploadID, Parts: make([]completedPart, 0, len(parts))}
	for _, p := range parts {
		req.Parts = append(req.Parts, completedPart{ETag: p.ETag, Part: p.PartNumber})
	}
	return c.do(ctx, http.MethodPost, "/upload/multipart-complete", req, nil)
}

func (c *HTTPClient) Abort(ctx context.Context, key string, uploadID string) error {
	path := "/upload/chunk-abort/" + url.PathEscape(uploadID) + "?key=" + url.QueryEscape(key)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

type storeRecordRequest struct {
	Name    string                `json:"name"`
	OwnerID string                `json:"ownerId"`
	Entries []domain.StorageEntry `json:"entries"`
}

// StoreRecord persists a file record through POST /files
func (c *HTTPClient) StoreRecord(ctx context.Context, name string, entries []domain.StorageEntry) error {
	return c.do(ctx, http.MethodPost, "/files", storeRecordRequest{Name: name, OwnerID: c.ownerID, Entries: entries}, nil)
}

// Put uploads body to a presigned URL with an explicit Content-Length
func (c *HTTPClient) Put(ctx context.Context, presignedURL string, body io.Reader, size int64, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to build put request: %w", err)
	}
	req.ContentLength = size
	if size == 0 {
		req.Body = http.NoBody
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Header.Get("ETag"), nil
}

type errorResponse struct {
	Error      string `json:"error"`
	Missing    []int  `json:"missing"`
	Duplicates []int  `json:"duplicates"`
}

func (c *HTTPClient) do(ctx context.Context, method string, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var e errorResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&e); err == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.Missing = e.Missing
			apiErr.Duplicates = e.Duplicates
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
