package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/services"
	"vagondeck/internal/vagon"
)

// FileHandler proxies organization file storage endpoints and runs the
// multipart upload pipeline.
type FileHandler struct {
	client  *vagon.Client
	uploads *services.UploadService
}

func NewFileHandler(client *vagon.Client, uploads *services.UploadService) *FileHandler {
	return &FileHandler{client: client, uploads: uploads}
}

// List returns the shared storage listing unchanged.
func (h *FileHandler) List(c *gin.Context) {
	result, err := h.client.ListFiles(c.Request.Context(), vagon.FileListOptions{
		ParentID: queryInt(c, "parent_id", 0),
		Page:     queryInt(c, "page", 1),
		PerPage:  queryInt(c, "per_page", 20),
		Query:    c.Query("q"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createDirectoryRequest struct {
	Name       string `json:"name"`
	ObjectType string `json:"object_type"`
	ParentID   int    `json:"parent_id"`
	MachineID  *int   `json:"machine_id"`
}

// Create makes a directory. File uploads go through Upload instead.
func (h *FileHandler) Create(c *gin.Context) {
	var req createDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JSON body is required")
		return
	}
	if req.ObjectType != "directory" {
		badRequest(c, "Use /api/files/upload for file uploads")
		return
	}
	if req.Name == "" {
		badRequest(c, "name parameter is required")
		return
	}

	result, err := h.client.CreateDirectory(c.Request.Context(), vagon.CreateDirectoryRequest{
		Name:      req.Name,
		ParentID:  req.ParentID,
		MachineID: req.MachineID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": result["id"], "uid": result["uid"]})
}

// Upload accepts a multipart form (file, parent_id, machine_id) and runs the
// register / chunk-PUT / complete pipeline against vendor storage.
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "No file provided")
		return
	}
	if fileHeader.Filename == "" {
		badRequest(c, "No file selected")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, err)
		return
	}

	var machineID *int
	if v := c.PostForm("machine_id"); v != "" {
		machineID = formIntPtr(v)
	}

	result, err := h.uploads.Upload(c.Request.Context(), services.UploadInput{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		ParentID:    formInt(c.PostForm("parent_id"), 0),
		MachineID:   machineID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"id":           result.ID,
		"uid":          result.UID,
		"download_url": result.DownloadURL,
	})
}

type completeUploadRequest struct {
	Parts []vagon.UploadPart `json:"parts"`
}

// Complete finalizes a multipart upload started elsewhere.
func (h *FileHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req completeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Parts) == 0 {
		badRequest(c, `JSON body with "parts" array is required`)
		return
	}

	result, err := h.client.CompleteUpload(c.Request.Context(), id, req.Parts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"uid":          result["uid"],
		"download_url": result["download_url"],
	})
}

// Download returns a temporary download URL for the file.
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.client.DownloadURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes a file or directory.
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.client.DeleteFile(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "File deleted"})
}

// Capacity reports storage usage, optionally scoped to one machine.
func (h *FileHandler) Capacity(c *gin.Context) {
	result, err := h.client.Capacity(c.Request.Context(), queryIntPtr(c, "machine_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
