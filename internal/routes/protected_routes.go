package routes

import (
	"keynotes-cms/internal/articles"
	"keynotes-cms/internal/assets"
	"keynotes-cms/internal/auth"
	"keynotes-cms/internal/constants"
	"keynotes-cms/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterProtectedRoutes(r *gin.Engine, controllerRegistry map[int]any) {

	authGroup := r.Group("")

	authGroup.Use(middlewares.AuthHandler())
	{
		// articles admin
		articlesApi := controllerRegistry[constants.Articles].(articles.Api)
		authGroup.GET("/admin/articles", articlesApi.GetAdminArticles)
		authGroup.GET("/admin/articles/:id", articlesApi.GetAdminArticleByID)
		authGroup.POST("/admin/articles", articlesApi.CreateArticle)
		authGroup.PUT("/admin/articles/:id", articlesApi.UpdateArticle)
		authGroup.DELETE("/admin/articles/:id", articlesApi.DeleteArticle)

		// asset store
		assetsApi := controllerRegistry[constants.Assets].(assets.Api)
		authGroup.POST("/admin/upload/image", assetsApi.UploadImage)
		authGroup.GET("/admin/images", assetsApi.GetGalleryImages)

		// auth
		authApi := controllerRegistry[constants.Auth].(auth.Api)
		authGroup.GET("/refresh-token", authApi.RefreshToken)
		authGroup.GET("/hash/:pw", authApi.CreatePasswordHash)
	}
}
