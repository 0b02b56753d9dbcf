package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/vagon"
)

// LogHandler proxies user action log endpoints.
type LogHandler struct {
	client *vagon.Client
}

func NewLogHandler(client *vagon.Client) *LogHandler {
	return &LogHandler{client: client}
}

// parseDateParam accepts full ISO datetimes or bare YYYY-MM-DD dates.
func parseDateParam(value string, fallback time.Time) (time.Time, bool) {
	if value == "" {
		return fallback, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// List fetches recent user action logs, defaulting to the last 7 days.
func (h *LogHandler) List(c *gin.Context) {
	now := time.Now().UTC()
	start, ok := parseDateParam(c.Query("start_date"), now.AddDate(0, 0, -7))
	if !ok {
		badRequest(c, "Invalid start_date format. Use ISO date or datetime.")
		return
	}
	end, ok := parseDateParam(c.Query("end_date"), now)
	if !ok {
		badRequest(c, "Invalid end_date format. Use ISO date or datetime.")
		return
	}
	if end.Before(start) {
		badRequest(c, "end_date must be after start_date")
		return
	}

	result, err := h.client.UserActionLogs(c.Request.Context(), vagon.LogFilter{
		StartDate:  start.Format(time.RFC3339),
		EndDate:    end.Format(time.RFC3339),
		ActionType: c.Query("action_type"),
		UserEmail:  c.Query("user_email"),
		MachineID:  queryIntPtr(c, "organization_machine_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	logs := vagon.FlattenList(listValue(result, "logs"))
	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"count":      result["count"],
		"start_date": result["start_date"],
		"end_date":   result["end_date"],
	})
}

// Archived returns presigned download URLs for archived logs.
func (h *LogHandler) Archived(c *gin.Context) {
	start := c.Query("start_date")
	end := c.Query("end_date")
	if start == "" || end == "" {
		badRequest(c, "start_date and end_date parameters are required")
		return
	}

	result, err := h.client.ArchivedLogURLs(c.Request.Context(), start, end, queryInt(c, "expires_in", 600))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
