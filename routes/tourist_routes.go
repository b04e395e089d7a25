package routes

import (
	"touristsafety/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupTouristRoutes registers the safety-check API under the given group.
func SetupTouristRoutes(r *gin.RouterGroup, caseHandler *handlers.CaseHandler) {
	r.POST("/tourist", caseHandler.SubmitReport)
	r.POST("/reply", caseHandler.SubmitReply)
	r.GET("/responder", caseHandler.GetResponderCases)
	r.POST("/resolve-case/:id", caseHandler.ResolveCase)
}
