package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vagondeck/internal/vagon"
)

func TestUploadPipeline(t *testing.T) {
	var storedChunk []byte
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		storedChunk, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"etag-1"`)
	}))
	defer storage.Close()

	var createBody, completeBody map[string]interface{}
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/organization-management/v1/files":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":          12,
				"uid":         "file-uid",
				"upload_urls": []string{storage.URL + "/part1"},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/organization-management/v1/files/12/complete":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&completeBody))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"uid":          "file-uid",
				"download_url": "https://storage.example/file",
			})
		default:
			t.Errorf("unexpected vendor call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer vendor.Close()

	svc := NewUploadService(vagon.NewClient("k", "s", vendor.URL))
	result, err := svc.Upload(context.Background(), UploadInput{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("hello vagon"),
		ParentID:    3,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello vagon", string(storedChunk))
	assert.Equal(t, "file-uid", result.UID)
	assert.Equal(t, "https://storage.example/file", result.DownloadURL)

	// registration carries the file metadata
	assert.Equal(t, "notes.txt", createBody["file_name"])
	assert.Equal(t, "file", createBody["object_type"])
	assert.Equal(t, float64(3), createBody["parent_id"])
	assert.Equal(t, float64(len("hello vagon")), createBody["size"])

	// completion reports the collected ETags
	parts, ok := completeBody["parts"].([]interface{})
	require.True(t, ok)
	require.Len(t, parts, 1)
	part := parts[0].(map[string]interface{})
	assert.Equal(t, float64(1), part["part_number"])
	assert.Equal(t, `"etag-1"`, part["etag"])
}

func TestUploadAbortsOnChunkFailure(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer storage.Close()

	var completeCalled bool
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/organization-management/v1/files" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":          12,
				"upload_urls": []string{storage.URL + "/part1"},
			})
			return
		}
		completeCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer vendor.Close()

	svc := NewUploadService(vagon.NewClient("k", "s", vendor.URL))
	_, err := svc.Upload(context.Background(), UploadInput{
		Name: "notes.txt",
		Data: []byte("hello"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload chunk 1/1")
	assert.False(t, completeCalled, "complete must not run after a failed chunk")
}

func TestUploadRejectsRegistrationWithoutURLs(t *testing.T) {
	vendor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 12})
	}))
	defer vendor.Close()

	svc := NewUploadService(vagon.NewClient("k", "s", vendor.URL))
	_, err := svc.Upload(context.Background(), UploadInput{Name: "x", Data: []byte("y")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no upload URLs")
}
