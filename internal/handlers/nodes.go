package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"power_node/internal/service"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusCreated = "created"
	statusRemoved = "removed"
	statusToggled = "toggled"
	statusUpdated = "updated"

	errNodeNotFound    = "node not found"
	errNodeExists      = "node already exists"
	errAccessDenied    = "insufficient access"
	errGetState        = "failed to load state"
	errNodeOperation   = "node operation failed"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// nodeError maps service errors of node operations onto HTTP statuses.
func (h *Handler) nodeError(c *gin.Context, logKey string, err error) {
	id := c.Param("id")
	switch {
	case errors.Is(err, service.ErrNodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errNodeNotFound})
	case errors.Is(err, service.ErrNodeExists):
		c.JSON(http.StatusConflict, gin.H{"error": errNodeExists})
	case errors.Is(err, service.ErrAccessDenied):
		if h.log != nil {
			h.log.Infow("node_access_denied", "node", id, "requester", requester(c))
		}
		c.JSON(http.StatusForbidden, gin.H{"error": errAccessDenied})
	case errors.Is(err, service.ErrInvalidNode), errors.Is(err, service.ErrInvalidFlow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errNodeOperation, logKey, err, "node", id)
	}
}

// CreateNodeRequest is the payload of POST /api/v1/nodes.
type CreateNodeRequest struct {
	// Node identity
	ID string `json:"id" binding:"required" example:"apc-engineering-1"`
	// Access tags; any one of them lets a user operate the breaker. Empty means unrestricted.
	Access []string `json:"access,omitempty" example:"Engineering"`
}

// UseToolRequest is the payload of POST /api/v1/nodes/{id}/tool.
type UseToolRequest struct {
	Tool string `json:"tool" binding:"required" example:"screwdriver"`
}

// SetLoadRequest is the payload of PUT /api/v1/nodes/{id}/load.
type SetLoadRequest struct {
	// Consumer demand in watts
	Load *float64 `json:"load,omitempty" example:"1500"`
	// Upstream feed in watts
	Feed *float64 `json:"feed,omitempty" example:"5000"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Create node
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Param        body  body      CreateNodeRequest  true  "Node payload"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/nodes [post]
// @Security     BearerAuth
func (h *Handler) createNode(c *gin.Context) {
	var req CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	err := h.services.CreateNode(c.Request.Context(), service.CreateNodeParams{ID: req.ID, Access: req.Access})
	if err != nil {
		h.nodeError(c, "node_create_failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": statusCreated, "id": req.ID})
}

// @Summary      List nodes
// @Tags         nodes
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, nodes"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/nodes [get]
// @Security     BearerAuth
func (h *Handler) listNodes(c *gin.Context) {
	nodes := h.services.ListNodes(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"count": len(nodes), "nodes": nodes})
}

// @Summary      Remove node
// @Tags         nodes
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/nodes/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteNode(c *gin.Context) {
	if err := h.services.RemoveNode(c.Request.Context(), c.Param("id")); err != nil {
		h.nodeError(c, "node_remove_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusRemoved})
}

// @Summary      Get node UI state
// @Tags         nodes
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  models.NodeState
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/nodes/{id}/state [get]
// @Security     BearerAuth
func (h *Handler) getNodeState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNodeNotFound})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "node_get_state_failed", err, "node", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Toggle breaker
// @Description  Manual toggle on behalf of the caller; subject to the node's access requirement
// @Tags         nodes
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/nodes/{id}/breaker [post]
// @Security     BearerAuth
func (h *Handler) toggleBreaker(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := h.services.ToggleBreaker(ctx, id, userID(c)); err != nil {
		h.nodeError(c, "node_toggle_failed", err)
		return
	}
	resp := gin.H{"status": statusToggled}
	if st, err := h.services.Monitoring.GetState(ctx, id); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Use tool on panel
// @Description  Starts a timed screwing operation; the panel flips when it completes
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Node id"
// @Param        body  body      UseToolRequest  true  "Tool payload"
// @Success      200   {object}  map[string]bool  "accepted"
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/nodes/{id}/tool [post]
// @Security     BearerAuth
func (h *Handler) useTool(c *gin.Context) {
	var req UseToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	accepted, err := h.services.UseTool(c.Request.Context(), c.Param("id"), req.Tool, userID(c))
	if err != nil {
		h.nodeError(c, "node_use_tool_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}

// @Summary      Cancel tool operation
// @Tags         nodes
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  map[string]bool  "cancelled"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/nodes/{id}/tool [delete]
// @Security     BearerAuth
func (h *Handler) cancelTool(c *gin.Context) {
	cancelled, err := h.services.CancelTool(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.nodeError(c, "node_cancel_tool_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

// @Summary      Compromise node
// @Description  Permanently disables access checks and forces the COMPROMISED indicator
// @Tags         overrides
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  map[string]bool  "affected"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/nodes/{id}/compromise [post]
// @Security     BearerAuth
func (h *Handler) compromise(c *gin.Context) {
	affected, err := h.services.Compromise(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.nodeError(c, "node_compromise_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// @Summary      Disturb node
// @Description  Forces an enabled breaker off
// @Tags         overrides
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  map[string]bool  "affected"
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/nodes/{id}/disturb [post]
// @Security     BearerAuth
func (h *Handler) disturb(c *gin.Context) {
	affected, err := h.services.Disturb(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.nodeError(c, "node_disturb_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// @Summary      Examine node
// @Tags         nodes
// @Produce      json
// @Param        id   path      string  true  "Node id"
// @Success      200  {object}  service.Examination
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/nodes/{id}/examine [get]
// @Security     BearerAuth
func (h *Handler) examine(c *gin.Context) {
	ex, err := h.services.Examine(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.nodeError(c, "node_examine_failed", err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// @Summary      Set simulated load and feed
// @Tags         nodes
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Node id"
// @Param        body  body      SetLoadRequest  true  "Flow payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/nodes/{id}/load [put]
// @Security     BearerAuth
func (h *Handler) setLoad(c *gin.Context) {
	var req SetLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	err := h.services.SetFlow(c.Request.Context(), c.Param("id"), service.FlowParams{Load: req.Load, Feed: req.Feed})
	if err != nil {
		h.nodeError(c, "node_set_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusUpdated})
}
