package articles

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"keynotes-cms/internal/api"
	"keynotes-cms/internal/authoring"
	"keynotes-cms/internal/content"
	"keynotes-cms/internal/database"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/logging"
	"keynotes-cms/internal/models"
	"keynotes-cms/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 10

// Api defines HTTP endpoints for the article catalog and its admin surface.
type Api interface {
	GetArticles(c *gin.Context)
	GetArticleBySlug(c *gin.Context)
	GetArticleHTML(c *gin.Context)
	GetCategories(c *gin.Context)
	GetAdminArticles(c *gin.Context)
	GetAdminArticleByID(c *gin.Context)
	CreateArticle(c *gin.Context)
	UpdateArticle(c *gin.Context)
	DeleteArticle(c *gin.Context)
}

// Controller handles API operations related to articles and categories.
type Controller struct {
	*environment.Env
	ArticleService
}

// articleRequest is the admin save payload. Content carries the serialized
// block document exactly as the editor produced it.
type articleRequest struct {
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	CategoryID uint     `json:"categoryId"`
	Featured   bool     `json:"featured"`
	Published  bool     `json:"published"`
	Tags       []string `json:"tags"`
	Content    string   `json:"content"`
}

// GetArticles returns the published articles, newest first, paged.
//
// @ID getArticles
// @Summary List published articles
// @Tags articles
// @Router /articles [get]
// @Param page query int false "Page number, 1-based"
// @Param pageSize query int false "Page size, defaults to 10"
// @Param category query string false "Category slug filter"
// @Param featured query bool false "Featured filter"
// @Success 200 {object} api.RestJsonResponse{data=[]models.Article}
// @Failure 500
func (ac *Controller) GetArticles(c *gin.Context) {
	published := true
	filter := database.ArticleFilter{
		CategorySlug: c.Query("category"),
		Published:    &published,
	}

	if raw := c.Query("featured"); len(raw) > 0 {
		if featured, err := strconv.ParseBool(raw); err == nil {
			filter.Featured = &featured
		}
	}

	ac.listArticles(c, filter)
}

// GetAdminArticles returns all articles including unpublished drafts.
//
// @ID getAdminArticles
// @Summary List all articles for the admin back office
// @Tags articles
// @Router /admin/articles [get]
// @Success 200 {object} api.RestJsonResponse{data=[]models.Article}
// @Failure 500
func (ac *Controller) GetAdminArticles(c *gin.Context) {
	ac.listArticles(c, database.ArticleFilter{CategorySlug: c.Query("category")})
}

func (ac *Controller) listArticles(c *gin.Context, filter database.ArticleFilter) {
	ctx := c.Request.Context()

	page := 1
	if parsed, err := strconv.Atoi(c.Query("page")); err == nil && parsed > 0 {
		page = parsed
	}
	pageSize := defaultPageSize
	if parsed, err := strconv.Atoi(c.Query("pageSize")); err == nil && parsed > 0 {
		pageSize = parsed
	}

	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	articles := make([]models.Article, 0)
	if err := ac.FindArticles(ctx, filter, &articles); err != nil {
		ac.LogError(logging.GetLogTypeContent(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("error reading articles: %s", err))
		return
	}

	var matchCount int64
	if err := ac.CountArticles(ctx, filter, &matchCount); err != nil {
		ac.LogError(logging.GetLogTypeContent(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("error counting articles: %s", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":   articles,
		"page":       page,
		"pageSize":   pageSize,
		"totalPages": utils.CalculateTotalPages(int(matchCount), pageSize),
		"matchCount": matchCount,
	})
}

// GetArticleBySlug returns the stored article for a public detail page,
// content still serialized.
//
// @ID getArticleBySlug
// @Summary Get an article by its slug
// @Tags articles
// @Router /articles/{slug} [get]
// @Param slug path string true "Article slug"
// @Success 200 {object} models.Article
// @Failure 404
// @Failure 500
func (ac *Controller) GetArticleBySlug(c *gin.Context) {
	ctx := c.Request.Context()

	slug := c.Param("slug")
	if len(slug) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponse("path variable 'slug' is missing"))
		return
	}

	var article models.Article
	if err := ac.ArticleService.GetArticleBySlug(ctx, slug, &article); err != nil {
		ac.abortArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// GetArticleHTML returns the article with its content rendered to display
// markup. A malformed stored document degrades to a single error placeholder
// instead of failing the page.
//
// @ID getArticleHTML
// @Summary Get an article with rendered content
// @Tags articles
// @Router /articles/{slug}/html [get]
// @Param slug path string true "Article slug"
// @Success 200 {object} map[string]any "Returns article metadata and rendered html"
// @Failure 404
// @Failure 500
func (ac *Controller) GetArticleHTML(c *gin.Context) {
	ctx := c.Request.Context()

	slug := c.Param("slug")
	if len(slug) <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponse("path variable 'slug' is missing"))
		return
	}

	var article models.Article
	if err := ac.ArticleService.GetArticleBySlug(ctx, slug, &article); err != nil {
		ac.abortArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": article,
		"html":    content.RenderRaw(article.Content),
	})
}

// GetAdminArticleByID returns the stored article for an edit session.
//
// @ID getAdminArticleByID
// @Summary Get an article by id for editing
// @Tags articles
// @Router /admin/articles/{id} [get]
// @Param id path uint true "Article ID"
// @Success 200 {object} models.Article
// @Failure 404
// @Failure 500
func (ac *Controller) GetAdminArticleByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ac.pathID(c)
	if !ok {
		return
	}

	var article models.Article
	if err := ac.ArticleService.GetArticleByID(ctx, id, &article); err != nil {
		ac.abortArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// CreateArticle stores a new article from the admin editor. The payload runs
// through a full authoring session so the same validation and derivation
// rules apply as in the interactive flow.
//
// @ID createArticle
// @Summary Create an article
// @Tags articles
// @Router /admin/articles [post]
// @Success 201 {object} api.RestJsonResponse
// @Failure 400
// @Failure 422
// @Failure 500
func (ac *Controller) CreateArticle(c *gin.Context) {
	ac.submitArticle(c, 0)
}

// UpdateArticle replaces a stored article with the submitted draft.
//
// @ID updateArticle
// @Summary Update an article
// @Tags articles
// @Router /admin/articles/{id} [put]
// @Param id path uint true "Article ID"
// @Success 200 {object} api.RestJsonResponse
// @Failure 400
// @Failure 404
// @Failure 422
// @Failure 500
func (ac *Controller) UpdateArticle(c *gin.Context) {
	id, ok := ac.pathID(c)
	if !ok {
		return
	}

	ac.submitArticle(c, id)
}

func (ac *Controller) submitArticle(c *gin.Context, articleID uint) {
	ctx := c.Request.Context()

	var request articleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		msg := fmt.Sprintf("error while unmarshaling request body: %s", err)
		ac.LogError(logging.GetLogTypeContent(), msg)
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponse(msg))
		return
	}

	fields := authoring.Fields{
		Title:      request.Title,
		Excerpt:    request.Excerpt,
		CategoryID: request.CategoryID,
		Featured:   request.Featured,
		Published:  request.Published,
		Tags:       request.Tags,
	}

	session, err := authoring.NewEditSession(ac.Env, nil, nil, &ac.ArticleService, articleID, fields, request.Content)
	if err != nil {
		ac.LogError(logging.GetLogTypeContent(), err)
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponsef("malformed content document: %s", err))
		return
	}

	if err := session.Submit(ctx); err != nil {
		ac.abortSubmitError(c, err)
		return
	}

	status := http.StatusOK
	if articleID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, api.NewGenericResponse(api.Success, "article saved", gin.H{}))
}

// DeleteArticle removes a stored article.
//
// @ID deleteArticle
// @Summary Delete an article
// @Tags articles
// @Router /admin/articles/{id} [delete]
// @Param id path uint true "Article ID"
// @Success 200 {object} api.RestJsonResponse
// @Failure 404
// @Failure 500
func (ac *Controller) DeleteArticle(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := ac.pathID(c)
	if !ok {
		return
	}

	if err := ac.ArticleService.DeleteArticle(ctx, id); err != nil {
		ac.abortArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "article deleted", gin.H{}))
}

// GetCategories returns all categories ordered by name.
//
// @ID getCategories
// @Summary List categories
// @Tags articles
// @Router /categories [get]
// @Success 200 {object} api.RestJsonResponse{data=[]models.Category}
// @Failure 500
func (ac *Controller) GetCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories := make([]models.Category, 0)
	if err := ac.FindAllCategories(ctx, &categories); err != nil {
		ac.LogError(logging.GetLogTypeContent(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("error reading categories: %s", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (ac *Controller) pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, api.NewErrorResponsef("path variable 'id' is not a valid id: %s", raw))
		return 0, false
	}
	return uint(id), true
}

func (ac *Controller) abortArticleError(c *gin.Context, err error) {
	ac.LogError(logging.GetLogTypeContent(), err)

	if errors.Is(err, ErrArticleNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, api.NewErrorResponse(err.Error()))
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("error reading article: %s", err))
}

func (ac *Controller) abortSubmitError(c *gin.Context, err error) {
	ac.LogError(logging.GetLogTypeContent(), err)

	var fieldErrors authoring.ValidationErrors
	if errors.As(err, &fieldErrors) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewFieldErrorResponse("validation failed", fieldErrors))
		return
	}
	if errors.Is(err, ErrArticleNotFound) || errors.Is(err, ErrCategoryNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, api.NewErrorResponse(err.Error()))
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("error saving article: %s", err))
}
