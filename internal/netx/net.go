// Package netx holds small HTTP helpers shared by the clients.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// UploadToPresignedURL PUTs body to a presigned object storage URL. An
// empty contentType is sniffed from the body.
func UploadToPresignedURL(ctx context.Context, c *http.Client, url string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// UploadFileToPresignedURL reads path and uploads its contents.
func UploadFileToPresignedURL(ctx context.Context, c *http.Client, url, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return UploadToPresignedURL(ctx, c, url, data, "")
}
