package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/api/middleware"
	"vagondeck/internal/config"
	"vagondeck/internal/vagon"
)

// logRetention is the vendor's recent-log window; anything older is only
// reachable through archived download URLs.
const logRetention = 30 * 24 * time.Hour

// PageHandler renders the server-side dashboard pages from vendor data.
type PageHandler struct {
	client *vagon.Client
	cfg    config.Config
}

func NewPageHandler(client *vagon.Client, cfg config.Config) *PageHandler {
	return &PageHandler{client: client, cfg: cfg}
}

// renderError shows the vendor's message on the error page with its status.
func (h *PageHandler) renderError(c *gin.Context, err error) {
	var apiErr *vagon.APIError
	if errors.As(err, &apiErr) {
		c.HTML(apiErr.StatusCode, "error.html", gin.H{
			"error":      apiErr.Message,
			"clientCode": apiErr.ClientCode,
		})
		return
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"error": err.Error()})
}

// Index renders the machines list with its filters.
func (h *PageHandler) Index(c *gin.Context) {
	filter := machineFilterFromQuery(c)
	result, err := h.client.ListMachines(c.Request.Context(), filter)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"machines":      vagon.FlattenList(listValue(result, "machines")),
		"count":         result["count"],
		"page":          filter.Page,
		"prevPage":      filter.Page - 1,
		"nextPage":      result["next_page"],
		"query":         filter.Query,
		"status":        filter.Status,
		"defaultPlanID": h.cfg.DefaultPlanID,
	})
}

// MachineDetail renders one machine plus its file storage browser.
func (h *PageHandler) MachineDetail(c *gin.Context) {
	id, err := pathIDPage(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	machineResult, err := h.client.GetMachine(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	machine := vagon.FlattenResource(machineResult)
	if len(machine) == 0 {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"error": "Machine not found"})
		return
	}

	parentID := queryInt(c, "parent_id", 0)
	page := queryInt(c, "page", 1)
	filesResult, err := h.client.MachineFiles(c.Request.Context(), id, vagon.FileListOptions{
		ParentID: parentID,
		Page:     page,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "machine_detail.html", gin.H{
		"machine":  machine,
		"files":    vagon.FlattenList(listValue(filesResult, "files")),
		"current":  flattenValue(filesResult["current"]),
		"count":    filesResult["count"],
		"page":     page,
		"nextPage": filesResult["next_page"],
		"parentID": parentID,
	})
}

// Files renders the organization's shared storage plus capacity.
func (h *PageHandler) Files(c *gin.Context) {
	parentID := queryInt(c, "parent_id", 0)
	page := queryInt(c, "page", 1)
	query := c.Query("q")

	result, err := h.client.ListFiles(c.Request.Context(), vagon.FileListOptions{
		ParentID: parentID,
		Page:     page,
		Query:    query,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	capacity, err := h.client.Capacity(c.Request.Context(), nil)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "files.html", gin.H{
		"files":    vagon.FlattenList(listValue(result, "files")),
		"current":  flattenValue(result["current"]),
		"count":    result["count"],
		"page":     page,
		"prevPage": page - 1,
		"nextPage": result["next_page"],
		"parentID": parentID,
		"query":    query,
		"capacity": capacity,
	})
}

// Images renders the image templates plus the machines for the assign dialog.
func (h *PageHandler) Images(c *gin.Context) {
	page := queryInt(c, "page", 1)
	query := c.Query("q")

	result, err := h.client.ListImages(c.Request.Context(), vagon.ImageFilter{
		Page:    page,
		PerPage: queryInt(c, "per_page", 20),
		Query:   query,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	images := vagon.FlattenList(listValue(result, "images"))
	for _, image := range images {
		normalizeImage(image)
	}

	machinesResult, err := h.client.ListMachines(c.Request.Context(), vagon.MachineFilter{Page: 1, PerPage: 100})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "images.html", gin.H{
		"images":   images,
		"count":    result["count"],
		"page":     page,
		"prevPage": page - 1,
		"nextPage": result["next_page"],
		"query":    query,
		"machines": vagon.FlattenList(listValue(machinesResult, "machines")),
	})
}

// Logs renders recent user action logs; windows reaching past the retention
// cutoff also fetch archived download URLs, best-effort.
func (h *PageHandler) Logs(c *gin.Context) {
	now := time.Now().UTC()
	start, ok := parseDateParam(c.Query("start_date"), now.AddDate(0, 0, -7))
	if !ok {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": "Invalid start_date format. Use ISO date or datetime."})
		return
	}
	end, ok := parseDateParam(c.Query("end_date"), now)
	if !ok {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": "Invalid end_date format. Use ISO date or datetime."})
		return
	}
	if end.Before(start) {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": "end_date must be after start_date"})
		return
	}

	actionType := c.Query("action_type")
	userEmail := c.Query("user_email")
	machineID := queryIntPtr(c, "organization_machine_id")

	result, err := h.client.UserActionLogs(c.Request.Context(), vagon.LogFilter{
		StartDate:  start.Format(time.RFC3339),
		EndDate:    end.Format(time.RFC3339),
		ActionType: actionType,
		UserEmail:  userEmail,
		MachineID:  machineID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	logs := vagon.FlattenList(listValue(result, "logs"))
	for _, entry := range logs {
		normalizeLogEntry(entry)
	}

	count := result["count"]
	if count == nil {
		count = len(logs)
	}

	c.HTML(http.StatusOK, "logs.html", gin.H{
		"logs":         logs,
		"count":        count,
		"startDate":    start.Format("2006-01-02"),
		"endDate":      end.Format("2006-01-02"),
		"archivedURLs": h.archivedURLs(c, start, end, now),
		"filters": gin.H{
			"actionType": actionType,
			"userEmail":  userEmail,
			"machineID":  machineID,
		},
	})
}

// archivedURLs fetches archive links for the part of the window older than
// the retention cutoff. Failures only log; the page still renders.
func (h *PageHandler) archivedURLs(c *gin.Context, start, end, now time.Time) []interface{} {
	cutoff := now.Add(-logRetention)

	var archiveEnd time.Time
	switch {
	case end.Before(cutoff):
		archiveEnd = end
	case start.Before(cutoff):
		archiveEnd = cutoff
	default:
		return nil
	}

	result, err := h.client.ArchivedLogURLs(c.Request.Context(),
		start.Format("2006-01-02"), archiveEnd.Format("2006-01-02"), 3600)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Warn("could not fetch archived logs")
		return nil
	}
	return listValue(result, "download_urls")
}

// pathIDPage parses the numeric id for page routes without writing a response.
func pathIDPage(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errors.New("invalid machine id")
	}
	return id, nil
}

func flattenValue(v interface{}) vagon.Payload {
	resource, ok := v.(map[string]interface{})
	if !ok {
		return vagon.Payload{}
	}
	return vagon.FlattenResource(vagon.Payload(resource))
}

// normalizeImage maps the source enum to its name and trims timestamps for
// display.
func normalizeImage(image vagon.Payload) {
	if source, ok := image["source"].(float64); ok {
		switch int(source) {
		case 0:
			image["source"] = "seat"
		case 1:
			image["source"] = "pre_installation"
		default:
			image["source"] = "unknown"
		}
	}
	if created, ok := image["created_at"].(string); ok && created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			image["created_at"] = t.Format("2006-01-02 15:04")
		} else if len(created) >= 10 {
			image["created_at"] = created[:10]
		}
	}
}

// normalizeLogEntry guarantees a metadata map and a readable timestamp.
func normalizeLogEntry(entry vagon.Payload) {
	if _, ok := entry["metadata"].(map[string]interface{}); !ok {
		entry["metadata"] = map[string]interface{}{}
	}
	if created, ok := entry["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			entry["created_at"] = t.UTC().Format("2006-01-02 15:04:05 UTC")
		}
	}
}
