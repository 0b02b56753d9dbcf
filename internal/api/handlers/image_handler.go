package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/services"
	"vagondeck/internal/vagon"
)

// ImageHandler proxies image template endpoints.
type ImageHandler struct {
	client   *vagon.Client
	notifier *services.NotificationService
}

func NewImageHandler(client *vagon.Client, notifier *services.NotificationService) *ImageHandler {
	return &ImageHandler{client: client, notifier: notifier}
}

// List answers with the flattened image list.
func (h *ImageHandler) List(c *gin.Context) {
	result, err := h.client.ListImages(c.Request.Context(), vagon.ImageFilter{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", 20),
		Query:   c.Query("q"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"images":    vagon.FlattenList(listValue(result, "images")),
		"count":     result["count"],
		"page":      result["page"],
		"next_page": result["next_page"],
	})
}

// Get returns one image, flattened.
func (h *ImageHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.client.GetImage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vagon.FlattenResource(result))
}

type createImageRequest struct {
	MachineID int    `json:"machine_id"`
	Name      string `json:"name"`
}

// Create snapshots a stopped machine into a new image.
func (h *ImageHandler) Create(c *gin.Context) {
	var req createImageRequest
	_ = c.ShouldBindJSON(&req)
	if req.MachineID == 0 {
		badRequest(c, "machine_id parameter is required")
		return
	}

	result, err := h.client.CreateImage(c.Request.Context(), req.MachineID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.MachineEvent("image snapshot", req.MachineID)
	c.JSON(http.StatusOK, vagon.FlattenResource(result))
}

type installImageRequest struct {
	SoftwareIDs []int  `json:"software_ids"`
	BaseImageID int    `json:"base_image_id"`
	Name        string `json:"name"`
}

// Install builds an image from pre-installation.
func (h *ImageHandler) Install(c *gin.Context) {
	var req installImageRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.client.InstallImage(c.Request.Context(), vagon.InstallImageRequest{
		SoftwareIDs: req.SoftwareIDs,
		BaseImageID: req.BaseImageID,
		Name:        req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vagon.FlattenResource(result))
}

type assignImageRequest struct {
	MachineIDs []int `json:"machine_ids"`
}

// Assign assigns the image to a set of machines.
func (h *ImageHandler) Assign(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req assignImageRequest
	_ = c.ShouldBindJSON(&req)
	if len(req.MachineIDs) == 0 {
		badRequest(c, "machine_ids parameter is required")
		return
	}

	if _, err := h.client.AssignImage(c.Request.Context(), id, req.MachineIDs); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.ImageEvent("assign", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image assigned to machines"})
}

// Delete removes the image.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.client.DeleteImage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image deleted"})
}
