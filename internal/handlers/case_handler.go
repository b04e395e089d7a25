package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"touristsafety/internal/models"
	"touristsafety/internal/repositories/interfaces"
	"touristsafety/internal/services"
	"touristsafety/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CaseHandler struct {
	caseService services.CaseService
}

func NewCaseHandler(caseService services.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// SubmitReport handles POST /api/tourist.
func (h *CaseHandler) SubmitReport(c *gin.Context) {
	var req models.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	result, err := h.caseService.SubmitReport(c.Request.Context(), &req)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to record tourist data")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitReply handles POST /api/reply.
func (h *CaseHandler) SubmitReply(c *gin.Context) {
	var req models.ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	_, err := h.caseService.SubmitReply(c.Request.Context(), req.Name, req.Reply)
	if err != nil {
		if errors.Is(err, interfaces.ErrCaseNotFound) {
			utils.NotFoundResponse(c, utils.ErrTouristNotFound)
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to record reply")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reply recorded successfully"})
}

// GetResponderCases handles GET /api/responder: every case, newest first.
func (h *CaseHandler) GetResponderCases(c *gin.Context) {
	cases, err := h.caseService.ListCases(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to load cases")
		return
	}

	if cases == nil {
		cases = []*models.Case{}
	}
	c.JSON(http.StatusOK, cases)
}

// ResolveCase handles POST /api/resolve-case/:id.
func (h *CaseHandler) ResolveCase(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.NotFoundResponse(c, utils.ErrCaseNotFound)
		return
	}

	// Body is optional; an absent resolvedBy falls back to the default label.
	var req models.ResolveRequest
	_ = c.ShouldBindJSON(&req)

	resolved, err := h.caseService.ResolveCase(c.Request.Context(), id, req.ResolvedBy)
	if err != nil {
		if errors.Is(err, interfaces.ErrCaseNotFound) {
			utils.NotFoundResponse(c, utils.ErrCaseNotFound)
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to resolve case")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Case %s has been resolved", resolved.CaseCode),
		"case":    resolved,
	})
}
