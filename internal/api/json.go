package api

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mitchellh/mapstructure"
)

const (
	Success string = "success" //The request ended successfully
	Error   string = "error"   //The request ended with error - check the message field
)

type GenericRequest struct {
	Data map[string]interface{} `json:"data"`
}

func NewGenericResponse(status string, message string, data interface{}) gin.H {
	return gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	}
}

func NewErrorResponse(message string) gin.H {
	return gin.H{
		"status":  Error,
		"message": message,
		"data":    gin.H{},
	}
}

func NewErrorResponsef(format string, a ...interface{}) gin.H {
	return gin.H{
		"status":  Error,
		"message": fmt.Sprintf(format, a...),
		"data":    gin.H{},
	}
}

// NewFieldErrorResponse answers validation failures with one message per
// invalid field, keyed by field name.
func NewFieldErrorResponse(message string, fieldErrors map[string]string) gin.H {
	return gin.H{
		"status":  Error,
		"message": message,
		"data":    gin.H{"fields": fieldErrors},
	}
}

func (genericRequest *GenericRequest) DecodeDataTo(output interface{}) error {
	err := mapstructure.Decode(genericRequest.Data, &output)
	if err != nil {
		return err
	}
	return nil
}

func (genericRequest *GenericRequest) Load(input []byte) error {
	err := json.Unmarshal(input, &genericRequest)
	if err != nil {
		return err
	}
	return nil
}

type RestJsonResponse struct {
	Status  string      `json:"status" example:"success"`
	Message string      `json:"message" example:"The request was sent successfully"`
	Data    interface{} `json:"data"`
}

type RestJsonErrorResponse struct {
	Status  string      `json:"status" example:"error"`
	Message string      `json:"message" example:"No article found"`
	Data    interface{} `json:"data"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
