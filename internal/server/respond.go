package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiResponse is the envelope every endpoint answers with. Result holds the
// payload on success; Error carries the message otherwise.
type apiResponse struct {
	Success bool   `json:"success"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondOK(c *gin.Context, result any) {
	c.JSON(http.StatusOK, apiResponse{Success: true, Result: result})
}

func respondCreated(c *gin.Context, result any) {
	c.JSON(http.StatusCreated, apiResponse{Success: true, Result: result})
}
