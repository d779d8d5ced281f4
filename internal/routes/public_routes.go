package routes

import (
	"keynotes-cms/internal/articles"
	"keynotes-cms/internal/auth"
	"keynotes-cms/internal/constants"

	"github.com/gin-gonic/gin"
)

func RegisterPublicRoutes(r *gin.Engine, controllerRegistry map[int]any) {

	// articles
	articlesApi := controllerRegistry[constants.Articles].(articles.Api)
	r.GET("/articles", articlesApi.GetArticles)
	r.GET("/articles/:slug", articlesApi.GetArticleBySlug)
	r.GET("/articles/:slug/html", articlesApi.GetArticleHTML)
	r.GET("/categories", articlesApi.GetCategories)

	// auth
	authApi := controllerRegistry[constants.Auth].(auth.Api)
	r.POST("/login", authApi.Login)
}
