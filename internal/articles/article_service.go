package articles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"keynotes-cms/internal/authoring"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/logging"
	"keynotes-cms/internal/models"
	"keynotes-cms/internal/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrArticleNotFound is returned when neither id nor slug resolve to a
// stored article.
var ErrArticleNotFound = errors.New("article not found")

// ErrCategoryNotFound is returned when a save references a category that
// does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// ArticleService owns the persistence of finished drafts and the read paths
// of the article catalog.
type ArticleService struct {
	*environment.Env
}

// ensure ArticleService can persist authoring drafts
var _ authoring.Persister = &ArticleService{}

// SaveArticle stores a submitted draft. A zero ArticleID creates a new
// article, otherwise the stored one is replaced field by field (last write
// wins, the prior snapshot is not kept). The slug is derived from the title
// on every save so a renamed article gets a matching URL.
func (s *ArticleService) SaveArticle(ctx context.Context, payload authoring.SubmitPayload) error {
	var category models.Category
	if err := s.FindCategoryByID(ctx, payload.CategoryID, &category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrCategoryNotFound, payload.CategoryID)
		}
		return err
	}

	tags, err := json.Marshal(payload.Tags)
	if err != nil {
		return fmt.Errorf("failed to serialize tags: %w", err)
	}

	if payload.ArticleID == 0 {
		article := models.Article{
			Title:      payload.Title,
			Slug:       utils.Slugify(payload.Title),
			Excerpt:    payload.Excerpt,
			Content:    payload.Content,
			Thumbnail:  payload.Thumbnail,
			ReadTime:   payload.ReadTime,
			Featured:   payload.Featured,
			Published:  payload.Published,
			Tags:       datatypes.JSON(tags),
			CategoryID: payload.CategoryID,
		}

		if err := s.CreateArticle(ctx, &article); err != nil {
			return err
		}

		s.LogInfof(logging.GetLogTypeContent(), "created article %q as %s", article.Title, article.Slug)
		return nil
	}

	var article models.Article
	if err := s.FindArticleByID(ctx, payload.ArticleID, &article); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrArticleNotFound, payload.ArticleID)
		}
		return err
	}

	article.Title = payload.Title
	article.Slug = utils.Slugify(payload.Title)
	article.Excerpt = payload.Excerpt
	article.Content = payload.Content
	article.Thumbnail = payload.Thumbnail
	article.ReadTime = payload.ReadTime
	article.Featured = payload.Featured
	article.Published = payload.Published
	article.Tags = datatypes.JSON(tags)
	article.CategoryID = payload.CategoryID
	article.Category = models.Category{}

	if err := s.UpdateArticle(ctx, &article); err != nil {
		return err
	}

	s.LogInfof(logging.GetLogTypeContent(), "updated article %d as %s", article.ID, article.Slug)
	return nil
}

// GetArticleBySlug resolves the public article URL to the stored record.
func (s *ArticleService) GetArticleBySlug(ctx context.Context, slug string, article *models.Article) error {
	if err := s.FindArticleBySlug(ctx, slug, article); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: slug %q", ErrArticleNotFound, slug)
		}
		return err
	}
	return nil
}

// GetArticleByID resolves an admin edit request to the stored record.
func (s *ArticleService) GetArticleByID(ctx context.Context, id uint, article *models.Article) error {
	if err := s.FindArticleByID(ctx, id, article); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrArticleNotFound, id)
		}
		return err
	}
	return nil
}

// DeleteArticle removes a stored article. Deleting an unknown id is
// reported as not found.
func (s *ArticleService) DeleteArticle(ctx context.Context, id uint) error {
	var article models.Article
	if err := s.GetArticleByID(ctx, id, &article); err != nil {
		return err
	}

	if err := s.DeleteArticleByID(ctx, id); err != nil {
		return err
	}

	s.LogInfof(logging.GetLogTypeContent(), "deleted article %d (%s)", id, article.Slug)
	return nil
}
