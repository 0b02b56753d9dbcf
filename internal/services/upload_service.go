package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"vagondeck/internal/logger"
	"vagondeck/internal/vagon"
)

// chunkSize matches the vendor's 250 MB multipart chunking.
const chunkSize = 250 * 1024 * 1024

// UploadService runs the three-step vendor upload pipeline: register the file,
// PUT each chunk to the returned presigned URLs, complete the upload. The
// first failed chunk aborts the whole pipeline; there are no retries.
type UploadService struct {
	client     *vagon.Client
	httpClient *http.Client
}

func NewUploadService(client *vagon.Client) *UploadService {
	return &UploadService{
		client:     client,
		httpClient: &http.Client{},
	}
}

// UploadInput carries one browser-submitted file destined for vendor storage.
type UploadInput struct {
	Name        string
	ContentType string
	Data        []byte
	ParentID    int
	MachineID   *int
}

// UploadResult reports the completed upload. Fields come straight from the
// vendor payloads.
type UploadResult struct {
	ID          interface{} `json:"id"`
	UID         interface{} `json:"uid"`
	DownloadURL interface{} `json:"download_url"`
}

// Upload runs the full pipeline and returns the vendor's identifiers.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	created, err := s.client.CreateFile(ctx, vagon.CreateFileRequest{
		Name:        in.Name,
		ParentID:    in.ParentID,
		ContentType: contentType,
		Size:        int64(len(in.Data)),
		MachineID:   in.MachineID,
	})
	if err != nil {
		return nil, err
	}

	fileID, ok := payloadInt(created["id"])
	if !ok {
		return nil, fmt.Errorf("create file: response carries no file id")
	}

	uploadURLs := stringList(created["upload_urls"])
	if len(uploadURLs) == 0 {
		return nil, fmt.Errorf("create file: response carries no upload URLs")
	}

	logger.WithFields(map[string]interface{}{
		"file":   in.Name,
		"id":     fileID,
		"chunks": len(uploadURLs),
	}).Info("uploading file to vendor storage")

	parts := make([]vagon.UploadPart, 0, len(uploadURLs))
	for i, uploadURL := range uploadURLs {
		start := i * chunkSize
		end := start + chunkSize
		if end > len(in.Data) {
			end = len(in.Data)
		}

		etag, err := s.putChunk(ctx, uploadURL, contentType, in.Data[start:end])
		if err != nil {
			return nil, fmt.Errorf("upload chunk %d/%d: %w", i+1, len(uploadURLs), err)
		}
		if etag != "" {
			parts = append(parts, vagon.UploadPart{PartNumber: i + 1, ETag: etag})
		}
	}

	completed, err := s.client.CompleteUpload(ctx, fileID, parts)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		ID:          created["id"],
		UID:         completed["uid"],
		DownloadURL: completed["download_url"],
	}, nil
}

// putChunk PUTs one chunk to its presigned URL and returns the storage ETag.
func (s *UploadService) putChunk(ctx context.Context, uploadURL, contentType string, chunk []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(chunk))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("storage returned status %d", resp.StatusCode)
	}
	return resp.Header.Get("ETag"), nil
}

func payloadInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
