package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hottakes/hottakes-api/internal/types"
)

// Fail records err for the error middleware and stops the handler chain.
// Handlers never write error bodies themselves.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, types.MessageResponse{Message: message})
}
