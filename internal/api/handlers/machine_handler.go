package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vagondeck/internal/services"
	"vagondeck/internal/vagon"
)

// MachineHandler proxies machine endpoints. Every action invokes exactly one
// client method and forwards the result.
type MachineHandler struct {
	client   *vagon.Client
	notifier *services.NotificationService
}

func NewMachineHandler(client *vagon.Client, notifier *services.NotificationService) *MachineHandler {
	return &MachineHandler{client: client, notifier: notifier}
}

// machineFilterFromQuery maps list query parameters onto the client filter.
func machineFilterFromQuery(c *gin.Context) vagon.MachineFilter {
	filter := vagon.MachineFilter{
		Page:     queryInt(c, "page", 1),
		PerPage:  queryInt(c, "per_page", 20),
		Query:    c.Query("q"),
		TimeLeft: queryIntPtr(c, "time_left"),
		Status:   c.Query("status"),
	}
	if v := c.Query("has_session_data"); v != "" {
		hasData := v == "true"
		filter.HasSessionData = &hasData
	}
	return filter
}

// List answers with the flattened machine list for modals and AJAX calls.
func (h *MachineHandler) List(c *gin.Context) {
	filter := machineFilterFromQuery(c)
	result, err := h.client.ListMachines(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"machines":  vagon.FlattenList(listValue(result, "machines")),
		"count":     result["count"],
		"page":      result["page"],
		"next_page": result["next_page"],
	})
}

// Get returns the raw vendor record for one machine.
func (h *MachineHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.client.GetMachine(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createMachinesRequest struct {
	PlanID      int             `json:"plan_id"`
	SeatPlanID  int             `json:"seat_plan_id"` // legacy alias for plan_id
	Quantity    int             `json:"quantity"`
	SoftwareIDs []int           `json:"software_ids"`
	BaseImageID int             `json:"base_image_id"`
	Region      string          `json:"region"`
	Permissions map[string]bool `json:"permissions"`
}

// Create provisions new machines on a plan.
func (h *MachineHandler) Create(c *gin.Context) {
	var req createMachinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "JSON body is required")
		return
	}
	planID := req.PlanID
	if planID == 0 {
		planID = req.SeatPlanID
	}
	if planID == 0 {
		badRequest(c, "plan_id is required")
		return
	}

	result, err := h.client.CreateMachines(c.Request.Context(), vagon.CreateMachinesRequest{
		PlanID:      planID,
		Quantity:    req.Quantity,
		SoftwareIDs: req.SoftwareIDs,
		BaseImageID: req.BaseImageID,
		Region:      req.Region,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.notifier.Notify("machines created")
	c.JSON(http.StatusOK, result)
}

type startMachineRequest struct {
	MachineTypeID int    `json:"machine_type_id"`
	Region        string `json:"region"`
}

// Start starts a machine, optionally switching its type or region.
func (h *MachineHandler) Start(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req startMachineRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	if _, err := h.client.StartMachine(c.Request.Context(), id, vagon.StartOptions{
		MachineTypeID: req.MachineTypeID,
		Region:        req.Region,
	}); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.MachineEvent("start", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Machine start initiated"})
}

// Stop gracefully stops a machine.
func (h *MachineHandler) Stop(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.client.StopMachine(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.MachineEvent("stop", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Machine stop initiated"})
}

// Reset resets a stopped machine back to its golden image.
func (h *MachineHandler) Reset(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.client.ResetMachine(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.notifier.MachineEvent("reset", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Machine reset initiated"})
}

type accessRequest struct {
	ExpiresIn *int `json:"expires_in"`
}

// Access issues a temporary connection link for the machine.
func (h *MachineHandler) Access(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req accessRequest
	_ = c.ShouldBindJSON(&req)
	if req.ExpiresIn == nil {
		badRequest(c, "expires_in parameter is required (in seconds)")
		return
	}

	result, err := h.client.CreateMachineAccess(c.Request.Context(), id, *req.ExpiresIn)
	if err != nil {
		respondError(c, err)
		return
	}

	// The access link arrives in JSON:API form with nested attributes.
	attrs, _ := result["attributes"].(map[string]interface{})
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"connection_link": attrs["connection_link"],
		"expires_at":      attrs["expires_at"],
	})
}

// AvailableMachineTypes lists the types the machine's seat plan allows.
func (h *MachineHandler) AvailableMachineTypes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	machineTypes, err := h.client.AvailableMachineTypes(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"machine_types": machineTypes})
}

type setMachineTypeRequest struct {
	MachineTypeID int `json:"machine_type_id"`
}

// SetMachineType changes the machine's type.
func (h *MachineHandler) SetMachineType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req setMachineTypeRequest
	_ = c.ShouldBindJSON(&req)
	if req.MachineTypeID == 0 {
		badRequest(c, "machine_type_id parameter is required")
		return
	}

	if _, err := h.client.SetMachineType(c.Request.Context(), id, req.MachineTypeID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Machine type updated"})
}

// PermissionFields lists the available permission flags.
func (h *MachineHandler) PermissionFields(c *gin.Context) {
	result, err := h.client.PermissionFields(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updatePermissionsRequest struct {
	Permissions map[string]bool `json:"permissions"`
}

// UpdatePermissions replaces the machine's permission flags.
func (h *MachineHandler) UpdatePermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updatePermissionsRequest
	_ = c.ShouldBindJSON(&req)
	if len(req.Permissions) == 0 {
		badRequest(c, "permissions parameter is required")
		return
	}

	if _, err := h.client.UpdateMachinePermissions(c.Request.Context(), id, req.Permissions); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Machine permissions updated"})
}

type listContentRequest struct {
	Path string `json:"path"`
}

// ListContent lists a path on the running machine itself.
func (h *MachineHandler) ListContent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req listContentRequest
	_ = c.ShouldBindJSON(&req)
	if req.Path == "" {
		badRequest(c, "path parameter is required")
		return
	}

	result, err := h.client.ListMachineContent(c.Request.Context(), id, req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Files lists the machine's file storage.
func (h *MachineHandler) Files(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.client.MachineFiles(c.Request.Context(), id, vagon.FileListOptions{
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
