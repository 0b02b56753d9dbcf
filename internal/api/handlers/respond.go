package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/api/middleware"
	"vagondeck/internal/vagon"
)

// respondError forwards a vendor failure to an API caller with the vendor's
// status and {error, client_code, status_code} envelope. Anything that is not
// an APIError becomes a 500.
func respondError(c *gin.Context, err error) {
	var apiErr *vagon.APIError
	if errors.As(err, &apiErr) {
		middleware.GetRequestLogger(c).WithFields(map[string]interface{}{
			"client_code": apiErr.ClientCode,
			"status":      apiErr.StatusCode,
		}).Error(apiErr.Message)
		c.JSON(apiErr.StatusCode, gin.H{
			"error":       apiErr.Message,
			"client_code": apiErr.ClientCode,
			"status_code": apiErr.StatusCode,
		})
		return
	}

	middleware.GetRequestLogger(c).WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":       err.Error(),
		"client_code": http.StatusInternalServerError,
		"status_code": http.StatusInternalServerError,
	})
}

// badRequest rejects a request that failed local presence checks, using the
// same envelope shape as vendor errors.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":       message,
		"client_code": http.StatusBadRequest,
		"status_code": http.StatusBadRequest,
	})
}

// pathID parses a numeric path parameter; a false return means a 400 has
// already been written.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryIntPtr(c *gin.Context, name string) *int {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func formInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func formIntPtr(v string) *int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// listValue pulls a JSON array out of a vendor payload.
func listValue(p vagon.Payload, key string) []interface{} {
	items, _ := p[key].([]interface{})
	return items
}
