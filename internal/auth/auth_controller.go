package auth

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"keynotes-cms/internal/api"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/middlewares"
	"keynotes-cms/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// Api defines the set of authentication-related endpoints exposed by the system.
//
// @Summary Authentication API
type Api interface {

	// Login to the admin back office
	Login(c *gin.Context)

	// RefreshToken creates a new access token after validating the old one
	RefreshToken(c *gin.Context)

	// CreatePasswordHash creates a hashed password which can then be used in the configuration
	CreatePasswordHash(c *gin.Context)
}

// Controller wires environment dependencies with authentication service methods.
// It fulfills the Api interface and delegates business logic to AuthService.
type Controller struct {
	*environment.Env
	*AuthService
}

// ensure Controller implements Api
var _ Api = &Controller{}

func (ac *Controller) Login(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		ac.LogErrorf(nil, "Error reading login info: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponse("Error reading login info"))
		return
	}

	request := api.GenericRequest{}
	err = request.Load(body)
	if err != nil {
		ac.LogErrorf(nil, "Error loading request data: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponse("Error reading login info"))
		return
	}

	user := models.User{}
	err = request.DecodeDataTo(&user)
	if err != nil {
		ac.LogErrorf(nil, "Error loading user data: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponse("Error reading user info"))
		return
	}
	user.Prepare()
	err = user.Validate()
	if err != nil {
		ac.LogErrorf(nil, "Error validating user: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponsef("Error validating User: %v", err))
		return
	}

	err = ac.DoLogin(&user)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.NewErrorResponse("Login not successful"))
		return
	}

	//issue token
	token, _, err := middlewares.GenerateToken(context.Background(), []byte(middlewares.SigningKey), user.ID, user.Username, []string{"admin"})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, api.NewErrorResponse("Error creating JWT"))
		return
	}
	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "", token))
}

func (ac *Controller) RefreshToken(c *gin.Context) {
	tokenHeader := c.Request.Header.Get("Authorization")

	b := "Bearer "
	t := strings.Split(tokenHeader, b)
	if len(t) < 2 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "An authorization token was not supplied"})
		c.Abort()
		return
	}

	token, err := middlewares.ValidateToken(t[1], middlewares.SigningKey)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, err.Error())
		return
	}

	claims := token.Claims.(*middlewares.CmsClaims)
	claims.ExpiresAt = time.Now().Add(43200 * time.Second).Unix()
	claims.IssuedAt = time.Now().Unix()

	// Create the token
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := newToken.SignedString([]byte(middlewares.SigningKey))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, api.NewErrorResponse("Error refreshing JWT"))
		return
	}
	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "", tokenString))

}

func (ac *Controller) CreatePasswordHash(c *gin.Context) {
	password := c.Param("pw")
	hashPw, hashErr := models.Hash(password)
	if hashErr != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("an error occurred"))
		return
	} else {
		c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "your encrypted (bcrypt) password", string(hashPw)))
	}
}
