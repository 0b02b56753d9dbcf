package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/vagon"
)

// SoftwareHandler lists installable software and base images.
type SoftwareHandler struct {
	client *vagon.Client
}

func NewSoftwareHandler(client *vagon.Client) *SoftwareHandler {
	return &SoftwareHandler{client: client}
}

// List answers with flattened software and base image catalogs.
func (h *SoftwareHandler) List(c *gin.Context) {
	result, err := h.client.ListSoftware(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		// the frontend historically expects "softwares"
		"softwares":   vagon.FlattenList(listValue(result, "software")),
		"base_images": vagon.FlattenList(listValue(result, "base_images")),
	})
}
