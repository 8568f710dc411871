package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/thankiuday/Phygital-sub005/internal/models"
	"github.com/thankiuday/Phygital-sub005/internal/services"
	"github.com/thankiuday/Phygital-sub005/internal/workflow"

	"github.com/gin-gonic/gin"
)

type WorkflowHandler struct {
	workflowService *services.WorkflowService
}

func NewWorkflowHandler(workflowService *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
	}
}

// OpenWorkflow godoc
// @Summary Open an upload workflow
// @Description Open (or resume) the upload wizard for a campaign. Use campaign key "new" with a campaign_type
// @Description to draft a campaign that does not exist yet. A saved draft younger than 30 days is restored;
// @Description otherwise the wizard starts fresh, pre-completing steps the campaign already satisfies.
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Campaign ID or 'new'"
// @Param request body models.StartWorkflowRequest false "Open workflow request"
// @Success 200 {object} models.WorkflowStateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/workflows/{key} [post]
func (h *WorkflowHandler) OpenWorkflow(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignKey := c.Param("key")

	var req models.StartWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Body is optional when resuming an existing campaign's wizard
		req = models.StartWorkflowRequest{}
	}

	state, err := h.workflowService.Open(c.Request.Context(), userID, campaignKey, &req)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// GetWorkflowState godoc
// @Summary Get workflow state
// @Description Get the current state of a campaign's upload wizard
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Campaign ID or 'new'"
// @Success 200 {object} models.WorkflowStateResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/workflows/{key} [get]
func (h *WorkflowHandler) GetWorkflowState(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignKey := c.Param("key")

	state, err := h.workflowService.Open(c.Request.Context(), userID, campaignKey, nil)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// CompleteStep godoc
// @Summary Submit data for a workflow step
// @Description Submit step data to the upload wizard. The merge and completion check run synchronously;
// @Description the cursor advances after a short delay so the completed view stays visible. Submissions
// @Description carrying a stale generation (from before a finalize) are rejected with 409.
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Campaign ID or 'new'"
// @Param step path string true "Step name"
// @Param request body models.CompleteStepRequest true "Step data"
// @Success 200 {object} models.WorkflowStateResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/workflows/{key}/steps/{step} [post]
func (h *WorkflowHandler) CompleteStep(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignKey := c.Param("key")
	step := c.Param("step")

	var req models.CompleteStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	state, err := h.workflowService.CompleteStep(c.Request.Context(), userID, campaignKey, step, &req)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// StepBack godoc
// @Summary Go back one workflow step
// @Description Move the wizard one step back. Data already submitted is kept.
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Campaign ID or 'new'"
// @Success 200 {object} models.WorkflowStateResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/workflows/{key}/back [post]
func (h *WorkflowHandler) StepBack(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignKey := c.Param("key")

	state, err := h.workflowService.Back(c.Request.Context(), userID, campaignKey)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// DiscardWorkflow godoc
// @Summary Discard workflow draft
// @Description Drop the wizard and its saved draft for a campaign
// @Tags workflow
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Campaign ID or 'new'"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/workflows/{key} [delete]
func (h *WorkflowHandler) DiscardWorkflow(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	campaignKey := c.Param("key")

	if err := h.workflowService.Discard(c.Request.Context(), userID, campaignKey); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to discard workflow", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workflow discarded"})
}

func (h *WorkflowHandler) respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrStaleGeneration):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUploadInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrUnknownStep):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, workflow.ErrStepIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case strings.Contains(err.Error(), "not found"):
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
	case strings.Contains(err.Error(), "campaign_type is required"), strings.Contains(err.Error(), "unknown campaign type"):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Workflow operation failed", "details": err.Error()})
	}
}
