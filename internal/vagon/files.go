package vagon

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// FileListOptions page through a directory listing.
type FileListOptions struct {
	ParentID int
	Page     int
	PerPage  int
	Query    string
}

func (o FileListOptions) values() url.Values {
	params := url.Values{}
	page := o.Page
	if page == 0 {
		page = 1
	}
	perPage := o.PerPage
	if perPage == 0 {
		perPage = 20
	}
	params.Set("parent_id", strconv.Itoa(o.ParentID))
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if o.Query != "" {
		params.Set("q", o.Query)
	}
	return params
}

// ListFiles lists the organization's shared storage: {files, current, count, page, next_page}.
func (c *Client) ListFiles(ctx context.Context, opts FileListOptions) (Payload, error) {
	return c.request(ctx, "GET", basePath+"/files", opts.values(), nil)
}

// CreateDirectoryRequest creates a directory under ParentID (0 = root).
// MachineID targets machine-specific storage instead of the shared one.
type CreateDirectoryRequest struct {
	Name      string
	ParentID  int
	MachineID *int
}

// CreateDirectory creates a directory and returns {id, uid}.
func (c *Client) CreateDirectory(ctx context.Context, req CreateDirectoryRequest) (Payload, error) {
	body := map[string]interface{}{
		"file_name":   req.Name,
		"object_type": "directory",
		"parent_id":   req.ParentID,
	}
	if req.MachineID != nil {
		body["machine_id"] = *req.MachineID
	}
	return c.request(ctx, "POST", basePath+"/files", nil, body)
}

// CreateFileRequest registers a file for multipart upload.
type CreateFileRequest struct {
	Name        string
	ParentID    int
	ContentType string
	Size        int64
	ChunkSize   int // megabytes, defaults to 250
	Overwrite   bool
	MachineID   *int
}

// CreateFile registers the file and returns {id, uid, upload_urls, chunk_size}:
// one presigned URL per chunk to PUT, then CompleteUpload finalizes.
func (c *Client) CreateFile(ctx context.Context, req CreateFileRequest) (Payload, error) {
	chunkSize := req.ChunkSize
	if chunkSize == 0 {
		chunkSize = 250
	}
	body := map[string]interface{}{
		"file_name":    req.Name,
		"object_type":  "file",
		"parent_id":    req.ParentID,
		"content_type": req.ContentType,
		"size":         req.Size,
		"chunk_size":   chunkSize,
		"overwrite":    req.Overwrite,
	}
	if req.MachineID != nil {
		body["machine_id"] = *req.MachineID
	}
	return c.request(ctx, "POST", basePath+"/files", nil, body)
}

// UploadPart pairs a chunk's part number with the ETag the storage backend
// returned for it.
type UploadPart struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

// CompleteUpload finalizes a multipart upload and returns {uid, download_url}.
func (c *Client) CompleteUpload(ctx context.Context, fileID int, parts []UploadPart) (Payload, error) {
	return c.request(ctx, "POST", fmt.Sprintf("%s/files/%d/complete", basePath, fileID), nil,
		map[string]interface{}{"parts": parts})
}

// DownloadURL returns a temporary download link: {url, size, name, content_type}.
func (c *Client) DownloadURL(ctx context.Context, fileID int) (Payload, error) {
	return c.request(ctx, "GET", fmt.Sprintf("%s/files/%d/download", basePath, fileID), nil, nil)
}

// DeleteFile removes a file or directory. Root folders cannot be deleted.
func (c *Client) DeleteFile(ctx context.Context, fileID int) (Payload, error) {
	return c.request(ctx, "DELETE", fmt.Sprintf("%s/files/%d", basePath, fileID), nil, nil)
}

// Capacity reports storage usage: {total, in_use, team}. A machine ID narrows
// it to that machine's storage.
func (c *Client) Capacity(ctx context.Context, machineID *int) (Payload, error) {
	var params url.Values
	if machineID != nil {
		params = url.Values{"machine_id": []string{strconv.Itoa(*machineID)}}
	}
	return c.request(ctx, "GET", basePath+"/files/capacity", params, nil)
}
