package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers respond with the flat JSON shapes the tourist and responder apps
// consume ({message, zone, caseId}, {error}), so success bodies are built
// in-place; these helpers cover the error paths.

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func InternalServerErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = ErrInternalServer
	}
	ErrorResponse(c, http.StatusInternalServerError, message)
}
