// Package storage is a thin client for the external object store. The store
// exposes a simple REST surface: authenticated uploads into a bucket and
// unauthenticated public URLs for reads.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// Uploader stores a binary object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// Client talks to the object store over HTTP.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a storage client for one bucket.
func NewClient(baseURL, serviceKey, bucket string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectKey derives the storage path for an uploaded file: a timestamp
// prefix plus the sanitized original name.
func (c *Client) ObjectKey(fileName string) string {
	sanitized := unsafePathChars.ReplaceAllString(fileName, "_")
	return fmt.Sprintf("%d-%s", c.now().UnixMilli(), sanitized)
}

// Upload stores the object and returns its public URL.
func (c *Client) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := c.ObjectKey(fileName)
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage: upload failed with status %d: %s", resp.StatusCode, body)
	}

	return c.PublicURL(key), nil
}

// PublicURL returns the unauthenticated read URL for an object key.
func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, c.bucket, key)
}
