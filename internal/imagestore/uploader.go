// Package imagestore uploads proof images to the external file store and
// returns a shareable URL.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var ErrUploadFailed = errors.New("image upload failed")

// Uploader stores a base64 data-URL image under a folder scope and returns
// its public URL.
type Uploader interface {
	Upload(ctx context.Context, dataURL, name, folder string) (string, error)
}

// HTTPUploader posts to the upload gateway (a small web app fronting the
// agency's shared drive).
type HTTPUploader struct {
	endpoint string
	client   *http.Client
}

func NewHTTPUploader(endpoint string) *HTTPUploader {
	return &HTTPUploader{
		endpoint: endpoint,
		// Uploads carry whole images; allow more than the usual timeout.
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

func (u *HTTPUploader) Upload(ctx context.Context, dataURL, name, folder string) (string, error) {
	payload, mimeType, err := splitDataURL(dataURL)
	if err != nil {
		return "", err
	}
	body, err := json.Marshal(map[string]string{
		"type":     "upload",
		"payload":  payload,
		"mimeType": mimeType,
		"name":     name,
		"folderId": folder,
	})
	if err != nil {
		return "", fmt.Errorf("imagestore: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("imagestore: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagestore: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}
	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("imagestore: decode: %w", err)
	}
	if !out.Success || out.URL == "" {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, out.Error)
	}
	return out.URL, nil
}

// splitDataURL takes "data:image/jpeg;base64,AAAA..." apart.
func splitDataURL(dataURL string) (payload, mimeType string, err error) {
	head, tail, ok := strings.Cut(dataURL, ",")
	if !ok || tail == "" {
		return "", "", fmt.Errorf("%w: malformed data url", ErrUploadFailed)
	}
	mimeType = strings.TrimSuffix(strings.TrimPrefix(head, "data:"), ";base64")
	return tail, mimeType, nil
}
