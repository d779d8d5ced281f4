package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"keynotes-cms/internal/database"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"moul.io/zapgorm2"
)

var env *environment.Env
var sqlMock sqlmock.Sqlmock

func TestMain(m *testing.M) {
	mockedGormDb, sqlDb, s, err := initMockedDatabase()
	if err != nil {
		return
	}

	defer func(mockDb *sql.DB) {
		sqlMock.ExpectClose()
		cErr := mockDb.Close()

		if cErr != nil {
			slog.Error(fmt.Sprintf("close database error: %v", cErr))
			return
		}
	}(sqlDb)

	// set up the environment
	sqlMock = s
	env = environment.Null()

	env.Repository = &database.GormRepository{DB: mockedGormDb}

	code := m.Run()

	os.Exit(code)
}

func initMockedDatabase() (*gorm.DB, *sql.DB, sqlmock.Sqlmock, error) {
	mockDb, sqlM, _ := sqlmock.New()
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{Logger: setupGormLogger()})

	if err != nil {
		slog.Error(fmt.Sprintf("error initializing database: %v", err))
		return nil, nil, nil, fmt.Errorf("error initializing database: %v", err)
	}

	return db, mockDb, sqlM, nil
}

func setupGormLogger() zapgorm2.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	gormW := zapcore.AddSync(&lumberjack.Logger{
		MaxSize:    500, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	gormCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		gormW,
		zapcore.DebugLevel,
	)
	zapGormLogger := zap.New(gormCore)
	gormLogger := zapgorm2.New(zapGormLogger)
	gormLogger.SetAsDefault()

	return gormLogger
}

func parseTime(value string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05.999999 -07:00", value)
	if err != nil {
		panic(err)
	}
	return t
}

// ####################### GormRepository
func TestGormRepository_FindArticles(t *testing.T) {
	articleRows := sqlMock.NewRows([]string{
		"id",
		"created_at",
		"updated_at",
		"title",
		"slug",
		"excerpt",
		"content",
		"thumbnail",
		"read_time",
		"featured",
		"published",
		"category_id",
	})

	want := []models.Article{
		{Model: models.Model{ID: 2, CreatedAt: parseTime("2025-08-02 10:06:56.823450 +00:00"), UpdatedAt: parseTime("2025-08-18 09:22:38.894670 +00:00")}, Title: "Second Post", Slug: "second-post", Excerpt: "E2", Content: `{"blocks":[],"version":"2.30.8"}`, ReadTime: 2, Published: true, CategoryID: 1},
		{Model: models.Model{ID: 1, CreatedAt: parseTime("2025-08-01 10:06:56.823450 +00:00"), UpdatedAt: parseTime("2025-08-18 09:22:38.894670 +00:00")}, Title: "First Post", Slug: "first-post", Excerpt: "E1", Content: `{"blocks":[],"version":"2.30.8"}`, ReadTime: 1, Published: true, CategoryID: 1},
	}

	for _, a := range want {
		articleRows.AddRow(
			a.ID,
			a.CreatedAt,
			a.UpdatedAt,
			a.Title,
			a.Slug,
			a.Excerpt,
			a.Content,
			a.Thumbnail,
			a.ReadTime,
			a.Featured,
			a.Published,
			a.CategoryID,
		)
	}

	// NOTE: ExpectedQuery expects a regex string as param
	sqlMock.ExpectQuery(`^SELECT .* FROM "articles" LEFT JOIN "categories" "Category" ON "articles"\."category_id" = "Category"\."id" ORDER BY articles\.created_at DESC`).
		WillReturnRows(articleRows)

	var got []models.Article
	err := env.FindArticles(context.Background(), database.ArticleFilter{}, &got)
	if err != nil {
		t.Fatalf("FindArticles error: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
		return
	}
}

func TestGormRepository_CountArticles(t *testing.T) {
	sqlMock.ExpectQuery(`^SELECT count\(\*\) FROM "articles" LEFT JOIN "categories" "Category"`).
		WillReturnRows(sqlMock.NewRows([]string{"count"}).AddRow(7))

	var count int64
	err := env.CountArticles(context.Background(), database.ArticleFilter{}, &count)
	if err != nil {
		t.Fatalf("CountArticles error: %v", err)
	}

	if count != 7 {
		t.Errorf("got count %d, want 7", count)
	}
}

func TestGormRepository_FindArticleBySlug(t *testing.T) {
	want := models.Article{
		Model:      models.Model{ID: 3},
		Title:      "Third Post",
		Slug:       "third-post",
		Excerpt:    "E3",
		Content:    `{"blocks":[],"version":"2.30.8"}`,
		ReadTime:   1,
		Published:  true,
		CategoryID: 1,
	}

	sqlMock.ExpectQuery(`^SELECT .* FROM "articles" LEFT JOIN "categories" "Category" ON "articles"\."category_id" = "Category"\."id" WHERE articles\.slug = \$1`).
		WillReturnRows(sqlMock.
			NewRows([]string{"id", "title", "slug", "excerpt", "content", "read_time", "published", "category_id"}).
			AddRow(want.ID, want.Title, want.Slug, want.Excerpt, want.Content, want.ReadTime, want.Published, want.CategoryID),
		)

	got := models.Article{}
	err := env.FindArticleBySlug(context.Background(), "third-post", &got)
	if err != nil {
		t.Fatalf("FindArticleBySlug error: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
		return
	}
}

func TestGormRepository_FindArticleByID(t *testing.T) {
	want := models.Article{
		Model:      models.Model{ID: 4},
		Title:      "Fourth Post",
		Slug:       "fourth-post",
		Excerpt:    "E4",
		ReadTime:   1,
		CategoryID: 1,
	}

	sqlMock.ExpectQuery(`^SELECT .* FROM "articles" LEFT JOIN "categories" "Category" ON "articles"\."category_id" = "Category"\."id" WHERE articles\.id = \$1`).
		WillReturnRows(sqlMock.
			NewRows([]string{"id", "title", "slug", "excerpt", "read_time", "category_id"}).
			AddRow(want.ID, want.Title, want.Slug, want.Excerpt, want.ReadTime, want.CategoryID),
		)

	got := models.Article{}
	err := env.FindArticleByID(context.Background(), 4, &got)
	if err != nil {
		t.Fatalf("FindArticleByID error: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
		return
	}
}

func TestGormRepository_CreateArticle(t *testing.T) {
	article := models.Article{
		Title:      "Fresh Post",
		Slug:       "fresh-post",
		Excerpt:    "E",
		Content:    `{"blocks":[],"version":"2.30.8"}`,
		ReadTime:   1,
		CategoryID: 1,
	}

	sqlMock.ExpectBegin()
	// default-valued zero fields are echoed back via RETURNING, the id is
	// always the last returned column
	sqlMock.ExpectQuery(`^INSERT INTO "articles" .* RETURNING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	sqlMock.ExpectCommit()

	err := env.CreateArticle(context.Background(), &article)
	if err != nil {
		t.Fatalf("CreateArticle error: %v", err)
	}

	if article.ID != 10 {
		t.Errorf("got id %d, want the returned id 10", article.ID)
	}
}

func TestGormRepository_UpdateArticle(t *testing.T) {
	article := models.Article{
		Model:      models.Model{ID: 10, CreatedAt: parseTime("2025-08-01 10:06:56.823450 +00:00")},
		Title:      "Fresh Post Revised",
		Slug:       "fresh-post-revised",
		Excerpt:    "E",
		Content:    `{"blocks":[],"version":"2.30.8"}`,
		ReadTime:   1,
		CategoryID: 1,
	}

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(`^UPDATE "articles" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	err := env.UpdateArticle(context.Background(), &article)
	if err != nil {
		t.Fatalf("UpdateArticle error: %v", err)
	}
}

func TestGormRepository_DeleteArticleByID(t *testing.T) {
	sqlMock.ExpectExec(`^DELETE FROM articles WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := env.DeleteArticleByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("DeleteArticleByID error: %v", err)
	}
}

func TestGormRepository_FindAllCategories(t *testing.T) {
	want := []models.Category{
		{Model: models.Model{ID: 2}, Name: "Engineering", Slug: "engineering", Color: "#1d4ed8", BgColor: "#dbeafe"},
		{Model: models.Model{ID: 1}, Name: "Notes", Slug: "notes", Color: "#15803d", BgColor: "#dcfce7"},
	}

	categoryRows := sqlMock.NewRows([]string{"id", "name", "slug", "color", "bg_color"})
	for _, c := range want {
		categoryRows.AddRow(c.ID, c.Name, c.Slug, c.Color, c.BgColor)
	}

	sqlMock.ExpectQuery(`^SELECT \* FROM "categories" ORDER BY name ASC`).
		WillReturnRows(categoryRows)

	var got []models.Category
	err := env.FindAllCategories(context.Background(), &got)
	if err != nil {
		t.Fatalf("FindAllCategories error: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
		return
	}
}

func TestGormRepository_FindCategoryByID(t *testing.T) {
	want := models.Category{Model: models.Model{ID: 1}, Name: "Notes", Slug: "notes"}

	sqlMock.ExpectQuery(`^SELECT \* FROM "categories" WHERE id = \$1`).
		WillReturnRows(sqlMock.
			NewRows([]string{"id", "name", "slug"}).
			AddRow(want.ID, want.Name, want.Slug),
		)

	got := models.Category{}
	err := env.FindCategoryByID(context.Background(), 1, &got)
	if err != nil {
		t.Fatalf("FindCategoryByID error: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
		return
	}
}

func TestGormRepository_FindUserLoginCredentials(t *testing.T) {

	want := models.User{
		Model:    models.Model{ID: 1},
		Username: "username",
		Password: "hashed_password",
		Email:    "test@email.com",
	}

	sqlMock.ExpectQuery(`^SELECT \* FROM "users" WHERE username = \$1 LIMIT \$2`).
		WillReturnRows(sqlMock.
			NewRows([]string{"id", "username", "email", "password"}).
			AddRow(1, want.Username, want.Email, want.Password),
		)

	got := models.User{}

	err := env.FindUserLoginCredentials(context.Background(), "testuser", &got)
	if err != nil {
		t.Fatalf("FindUserLoginCredentials error: %v", err)
	}

	if !cmp.Equal(want, got) {
		t.Error(cmp.Diff(want, got))
		return
	}
}

// ####################### NullRepository
func TestNullRepository_FindArticles(t *testing.T) {
	repo := &database.NullRepository{}
	var articles []models.Article
	err := repo.FindArticles(context.Background(), database.ArticleFilter{}, &articles)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}
}

func TestNullRepository_FindArticleBySlug(t *testing.T) {
	repo := &database.NullRepository{}
	var article models.Article
	err := repo.FindArticleBySlug(context.Background(), "any-slug", &article)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}
}

func TestNullRepository_DeleteArticleByID(t *testing.T) {
	repo := &database.NullRepository{}
	err := repo.DeleteArticleByID(context.Background(), 1)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}
}

func TestNullRepository_FindAllCategories(t *testing.T) {
	repo := &database.NullRepository{}
	var categories []models.Category
	err := repo.FindAllCategories(context.Background(), &categories)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}
}

func TestNullRepository_FindUserLoginCredentials(t *testing.T) {
	repo := &database.NullRepository{}
	var user models.User
	err := repo.FindUserLoginCredentials(context.Background(), "testuser", &user)
	if err != nil {
		t.Errorf("Expected nil error, got %v", err)
		return
	}
}
