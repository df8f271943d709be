package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/app/services"
	"github.com/tuhmaz/edu/internal/middleware"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/pkg/helpers"
)

// ArticleController handles the dashboard article endpoints
type ArticleController struct {
	articleService services.ArticleService
	catalogService services.CatalogService
}

// NewArticleController creates a new ArticleController
func NewArticleController(articleService services.ArticleService, catalogService services.CatalogService) *ArticleController {
	return &ArticleController{
		articleService: articleService,
		catalogService: catalogService,
	}
}

// ListArticles lists the partition's articles
// @Summary List articles
// @Description Returns a page of articles of the country partition, newest first. Pages are cached for a short time.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param country query string false "Country (jordan, saudi, egypt, palestine)" default(jordan)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(25)
// @Success 200 {object} dto.APIResponse{data=dto.ArticleListResponse} "Articles retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/articles [get]
func (c *ArticleController) ListArticles(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.articleService.ListArticles(ctx, middleware.GetTenant(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// ListByGrade lists articles of one grade level
// @Summary List articles by grade
// @Description Returns a page of articles whose subject belongs to the grade level
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param gradeLevel path int true "Grade level"
// @Param country query string false "Country" default(jordan)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(25)
// @Success 200 {object} dto.APIResponse{data=dto.ArticleListResponse} "Articles retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid grade level"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/articles/class/{gradeLevel} [get]
func (c *ArticleController) ListByGrade(ctx *gin.Context) {
	gradeLevel, err := strconv.Atoi(ctx.Param("gradeLevel"))
	if err != nil {
		middleware.RespondBadRequest(ctx, "Invalid grade level", "Grade level must be a valid number")
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.articleService.ListByGrade(ctx, middleware.GetTenant(ctx), gradeLevel, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetOptions returns the authoring form choices
// @Summary Article form options
// @Description Returns the partition's classes, and its subjects and semesters filtered by grade level when given
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param country query string false "Country" default(jordan)
// @Param grade_level query int false "Grade level filter"
// @Success 200 {object} dto.APIResponse{data=dto.ArticleOptionsResponse} "Options retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid grade level"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/articles/options [get]
func (c *ArticleController) GetOptions(ctx *gin.Context) {
	var gradeLevel *int
	if raw := ctx.Query("grade_level"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondBadRequest(ctx, "Invalid grade level", "grade_level must be a valid number")
			return
		}
		gradeLevel = &level
	}

	resp, err := c.catalogService.GetOptions(ctx, middleware.GetTenant(ctx), gradeLevel)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// GetArticle returns one article and counts the visit
// @Summary Get article
// @Description Returns the article with known keywords linked in its content. Each read increments the visit count.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param country query string false "Country" default(jordan)
// @Success 200 {object} dto.APIResponse{data=dto.ArticleResponse} "Article retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid article ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/articles/{id} [get]
func (c *ArticleController) GetArticle(ctx *gin.Context) {
	id, ok := articleID(ctx)
	if !ok {
		return
	}

	resp, err := c.articleService.GetArticle(ctx, middleware.GetTenant(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// CreateArticle creates an article with its keywords and optional file
// @Summary Create article
// @Description Creates an article in the country partition. The article, its keywords and the uploaded file are written atomically.
// @Tags articles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param country query string false "Country" default(jordan)
// @Param class_id formData int true "Class ID"
// @Param subject_id formData int true "Subject ID"
// @Param semester_id formData int true "Semester ID"
// @Param title formData string true "Title (max 60 characters)"
// @Param content formData string true "Content (HTML)"
// @Param keywords formData string false "Comma separated keywords"
// @Param file_category formData string true "File category"
// @Param file_name formData string false "Stored file name override"
// @Param meta_description formData string false "Meta description (max 120 characters)"
// @Param use_title_for_meta formData bool false "Use the title as meta description"
// @Param use_keywords_for_meta formData bool false "Use the keywords as meta description"
// @Param file formData file false "Attachment"
// @Success 201 {object} dto.APIResponse{data=dto.ArticleResponse} "Article created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid article data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Operation was rolled back"
// @Failure 502 {object} dto.ErrorResponse "File storage failed"
// @Router /dashboard/articles [post]
func (c *ArticleController) CreateArticle(ctx *gin.Context) {
	in, closeUpload, err := readArticleInput(ctx, "file")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer closeUpload()

	resp, err := c.articleService.CreateArticle(ctx, middleware.GetTenant(ctx), middleware.GetUserID(ctx), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// UpdateArticle updates an article
// @Summary Update article
// @Description Updates the article atomically. Keywords are replaced only when the keywords field is sent. A new upload replaces the current file.
// @Tags articles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param country query string false "Country" default(jordan)
// @Param class_id formData int true "Class ID"
// @Param subject_id formData int true "Subject ID"
// @Param semester_id formData int true "Semester ID"
// @Param title formData string true "Title (max 60 characters)"
// @Param content formData string true "Content (HTML)"
// @Param keywords formData string false "Comma separated keywords"
// @Param file_category formData string true "File category"
// @Param file_name formData string false "Stored file name override"
// @Param meta_description formData string false "Meta description (max 120 characters)"
// @Param use_title_for_meta formData bool false "Use the title as meta description"
// @Param use_keywords_for_meta formData bool false "Use the keywords as meta description"
// @Param new_file formData file false "Replacement attachment"
// @Success 200 {object} dto.APIResponse{data=dto.ArticleResponse} "Article updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid article data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Failure 500 {object} dto.ErrorResponse "Operation was rolled back"
// @Failure 502 {object} dto.ErrorResponse "File storage failed"
// @Router /dashboard/articles/{id} [put]
func (c *ArticleController) UpdateArticle(ctx *gin.Context) {
	id, ok := articleID(ctx)
	if !ok {
		return
	}

	in, closeUpload, err := readArticleInput(ctx, "new_file", "file")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer closeUpload()

	resp, err := c.articleService.UpdateArticle(ctx, middleware.GetTenant(ctx), id, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}

// DeleteArticle deletes an article and its files
// @Summary Delete article
// @Description Deletes the article, its file rows and their stored objects. Keywords are kept.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param country query string false "Country" default(jordan)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Article deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid article ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Article not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard/articles/{id} [delete]
func (c *ArticleController) DeleteArticle(ctx *gin.Context) {
	id, ok := articleID(ctx)
	if !ok {
		return
	}

	if err := c.articleService.DeleteArticle(ctx, middleware.GetTenant(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Article deleted successfully"},
		Timestamp: time.Now(),
	})
}

func articleID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondBadRequest(ctx, "Invalid article ID", "Article ID must be a positive number")
		return 0, false
	}
	return id, true
}

// readArticleInput binds the authoring form and opens the first upload found under fileFields.
// The returned func closes the upload and is always safe to call.
func readArticleInput(ctx *gin.Context, fileFields ...string) (services.ArticleInput, func(), error) {
	noop := func() {}

	var in services.ArticleInput
	if err := middleware.BindForm(ctx, &in.Form); err != nil {
		return in, noop, err
	}
	_, in.KeywordsProvided = ctx.GetPostForm("keywords")

	header, err := formFile(ctx, fileFields...)
	if err != nil {
		return in, noop, err
	}
	if header == nil {
		return in, noop, nil
	}

	f, err := header.Open()
	if err != nil {
		return in, noop, apperrors.NewBadRequestError("Unable to read uploaded file")
	}
	in.Upload = &services.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   f,
	}
	return in, func() { _ = f.Close() }, nil
}

func formFile(ctx *gin.Context, fields ...string) (*multipart.FileHeader, error) {
	for _, field := range fields {
		header, err := ctx.FormFile(field)
		if err == nil {
			return header, nil
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, apperrors.NewBadRequestError("Invalid file upload")
		}
	}
	return nil, nil
}
