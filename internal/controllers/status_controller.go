package controllers

import (
	"net/http"

	"keynotes-cms/internal/api"

	"github.com/gin-gonic/gin"
)

func GetHeartBeat(c *gin.Context) {
	c.AbortWithStatus(http.StatusOK)
}

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "running", nil))
}
