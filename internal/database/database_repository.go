package database

import (
	"context"

	"keynotes-cms/internal/models"

	"gorm.io/gorm"
)

// ArticleFilter narrows article listings. Nil pointer fields mean "no
// constraint"; Limit <= 0 disables paging.
type ArticleFilter struct {
	CategorySlug string
	Featured     *bool
	Published    *bool
	Limit        int
	Offset       int
}

// Repository defines data access methods for articles, categories, and admin
// login credentials.
type Repository interface {

	// FindArticles retrieves articles matching the filter, newest first.
	FindArticles(ctx context.Context, filter ArticleFilter, articles *[]models.Article) error

	// CountArticles counts articles matching the filter, ignoring paging.
	CountArticles(ctx context.Context, filter ArticleFilter, count *int64) error

	// FindArticleByID fetches a single article including its category.
	//
	// Param id path uint true "Article ID"
	FindArticleByID(ctx context.Context, id uint, article *models.Article) error

	// FindArticleBySlug fetches a single article including its category.
	//
	// Param slug path string true "Article slug"
	FindArticleBySlug(ctx context.Context, slug string, article *models.Article) error

	CreateArticle(ctx context.Context, article *models.Article) error

	UpdateArticle(ctx context.Context, article *models.Article) error

	DeleteArticleByID(ctx context.Context, id uint) error

	// FindAllCategories retrieves all categories ordered by name.
	FindAllCategories(ctx context.Context, categories *[]models.Category) error

	FindCategoryByID(ctx context.Context, id uint, category *models.Category) error

	// FindUserLoginCredentials fetches the user record with the specified username.
	//
	// Param username path string true "Username"
	FindUserLoginCredentials(ctx context.Context, username string, user *models.User) error
}

// NullRepository is a no-op implementation of the Repository interface.
// Useful for testing or default wiring when no database operations are required.
type NullRepository struct{}

func (n *NullRepository) FindArticles(ctx context.Context, filter ArticleFilter, articles *[]models.Article) error {
	return nil
}

func (n *NullRepository) CountArticles(ctx context.Context, filter ArticleFilter, count *int64) error {
	return nil
}

func (n *NullRepository) FindArticleByID(ctx context.Context, id uint, article *models.Article) error {
	return nil
}

func (n *NullRepository) FindArticleBySlug(ctx context.Context, slug string, article *models.Article) error {
	return nil
}

func (n *NullRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	return nil
}

func (n *NullRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	return nil
}

func (n *NullRepository) DeleteArticleByID(ctx context.Context, id uint) error {
	return nil
}

func (n *NullRepository) FindAllCategories(ctx context.Context, categories *[]models.Category) error {
	return nil
}

func (n *NullRepository) FindCategoryByID(ctx context.Context, id uint, category *models.Category) error {
	return nil
}

func (n *NullRepository) FindUserLoginCredentials(ctx context.Context, username string, user *models.User) error {
	return nil
}

// ensure NullRepository implements Repository
var _ Repository = &NullRepository{}

// GormRepository provides a GORM-based implementation of the Repository interface.
type GormRepository struct {
	*gorm.DB
}

// ensure GormRepository implements Repository
var _ Repository = &GormRepository{}

func (g *GormRepository) articleQuery(ctx context.Context, filter ArticleFilter) *gorm.DB {
	q := g.DB.
		WithContext(ctx).
		Model(&models.Article{}).
		Joins("Category")

	if len(filter.CategorySlug) > 0 {
		q = q.Where(`"Category"."slug" = ?`, filter.CategorySlug)
	}
	if filter.Featured != nil {
		q = q.Where("articles.featured = ?", *filter.Featured)
	}
	if filter.Published != nil {
		q = q.Where("articles.published = ?", *filter.Published)
	}

	return q
}

func (g *GormRepository) FindArticles(ctx context.Context, filter ArticleFilter, articles *[]models.Article) error {
	q := g.articleQuery(ctx, filter).
		Order("articles.created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	return q.Find(articles).Error
}

func (g *GormRepository) CountArticles(ctx context.Context, filter ArticleFilter, count *int64) error {
	unpaged := filter
	unpaged.Limit = 0
	unpaged.Offset = 0

	return g.articleQuery(ctx, unpaged).
		Count(count).
		Error
}

func (g *GormRepository) FindArticleByID(ctx context.Context, id uint, article *models.Article) error {
	return g.DB.
		WithContext(ctx).
		Joins("Category").
		First(article, "articles.id = ?", id).
		Error
}

func (g *GormRepository) FindArticleBySlug(ctx context.Context, slug string, article *models.Article) error {
	return g.DB.
		WithContext(ctx).
		Joins("Category").
		First(article, "articles.slug = ?", slug).
		Error
}

func (g *GormRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	return g.DB.
		WithContext(ctx).
		Omit("Category").
		Create(article).
		Error
}

func (g *GormRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	return g.DB.
		WithContext(ctx).
		Omit("Category").
		Save(article).
		Error
}

func (g *GormRepository) DeleteArticleByID(ctx context.Context, id uint) error {
	return g.DB.
		WithContext(ctx).
		Exec("DELETE FROM articles WHERE id = ?", id).
		Error
}

func (g *GormRepository) FindAllCategories(ctx context.Context, categories *[]models.Category) error {
	return g.DB.
		WithContext(ctx).
		Order("name ASC").
		Find(categories).
		Error
}

func (g *GormRepository) FindCategoryByID(ctx context.Context, id uint, category *models.Category) error {
	return g.DB.
		WithContext(ctx).
		First(category, "id = ?", id).
		Error
}

func (g *GormRepository) FindUserLoginCredentials(ctx context.Context, username string, user *models.User) error {
	return g.DB.
		WithContext(ctx).
		Model(models.User{}).
		Where("username = ?", username).
		Take(user).
		Error
}
