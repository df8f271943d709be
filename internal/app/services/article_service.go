package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/app/notifications"
	"github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/pkg/content"
	"github.com/tuhmaz/edu/internal/pkg/dberrors"
	"github.com/tuhmaz/edu/internal/pkg/filestorage"
	"github.com/tuhmaz/edu/internal/pkg/helpers"
	"github.com/tuhmaz/edu/internal/pkg/metrics"
	"github.com/tuhmaz/edu/internal/tenant"
)

const (
	maxTitleLength    = 60
	maxCategoryLength = 100
	maxFileNameLength = 255

	defaultClassSegment    = "general"
	defaultCategorySegment = "uncategorized"
)

// Upload is a file supplied with a create or update request
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// ArticleInput carries the authoring form of create and update.
// KeywordsProvided distinguishes an absent keywords field from an empty one.
type ArticleInput struct {
	Form             dto.ArticleForm
	KeywordsProvided bool
	Upload           *Upload
}

// Publisher accepts events for asynchronous delivery
type Publisher interface {
	Publish(event notifications.ArticlePublished) bool
}

// ArticleService defines the content pipeline of one country partition per call
type ArticleService interface {
	ListArticles(ctx context.Context, t tenant.Tenant, page, size int) (*dto.ArticleListResponse, error)
	ListByGrade(ctx context.Context, t tenant.Tenant, gradeLevel, page, size int) (*dto.ArticleListResponse, error)
	GetArticle(ctx context.Context, t tenant.Tenant, id int64) (*dto.ArticleResponse, error)
	CreateArticle(ctx context.Context, t tenant.Tenant, authorID int64, in ArticleInput) (*dto.ArticleResponse, error)
	UpdateArticle(ctx context.Context, t tenant.Tenant, id int64, in ArticleInput) (*dto.ArticleResponse, error)
	DeleteArticle(ctx context.Context, t tenant.Tenant, id int64) error
}

// articleServiceImpl implements ArticleService
type articleServiceImpl struct {
	store     repositories.Store
	storage   filestorage.BlobStorage
	publisher Publisher
	linker    *content.Linker
	listCache *cache.Cache
	logger    zerolog.Logger
}

// NewArticleService creates a new ArticleService. Listings are cached for listTTL.
func NewArticleService(
	store repositories.Store,
	storage filestorage.BlobStorage,
	publisher Publisher,
	linker *content.Linker,
	listTTL time.Duration,
	logger zerolog.Logger,
) ArticleService {
	return &articleServiceImpl{
		store:     store,
		storage:   storage,
		publisher: publisher,
		linker:    linker,
		listCache: cache.New(listTTL, 2*listTTL),
		logger:    logger,
	}
}

func listCacheKey(conn tenant.Connection, page, size int) string {
	return fmt.Sprintf("articles_%s_%d_%d", conn, page, size)
}

// ListArticles returns a page of the partition's articles, newest first.
// Pages are cached per partition and never invalidated by writes.
func (s *articleServiceImpl) ListArticles(ctx context.Context, t tenant.Tenant, page, size int) (*dto.ArticleListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	key := listCacheKey(t.Connection, page, limit)

	if cached, ok := s.listCache.Get(key); ok {
		metrics.ArticleListCache.WithLabelValues("hit").Inc()
		return cached.(*dto.ArticleListResponse), nil
	}
	metrics.ArticleListCache.WithLabelValues("miss").Inc()

	resp, err := s.list(ctx, t, repositories.ArticleFilter{}, page, offset, limit)
	metrics.ObserveArticleOperation(t.Connection.String(), "list", err)
	if err != nil {
		return nil, err
	}

	s.listCache.SetDefault(key, resp)
	return resp, nil
}

// ListByGrade returns a page of articles whose subject belongs to gradeLevel
func (s *articleServiceImpl) ListByGrade(ctx context.Context, t tenant.Tenant, gradeLevel, page, size int) (*dto.ArticleListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	resp, err := s.list(ctx, t, repositories.ArticleFilter{GradeLevel: &gradeLevel}, page, offset, limit)
	metrics.ObserveArticleOperation(t.Connection.String(), "list_by_grade", err)
	return resp, err
}

func (s *articleServiceImpl) list(ctx context.Context, t tenant.Tenant, filter repositories.ArticleFilter, page int, offset uint64, limit int) (*dto.ArticleListResponse, error) {
	repos, err := s.store.Repositories(t.Connection)
	if err != nil {
		return nil, err
	}

	articles, total, err := repos.Articles.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing articles: %w", err)
	}
	if err := hydrate(ctx, repos, articles); err != nil {
		return nil, err
	}

	return &dto.ArticleListResponse{
		Articles:   dto.FromArticles(t.Connection.String(), articles, s.storage.URL),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// hydrate attaches keywords and files to a batch of articles
func hydrate(ctx context.Context, repos *repositories.Repositories, articles []*models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	keywords, err := repos.Keywords.ListByArticleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading keywords: %w", err)
	}
	files, err := repos.Files.ListByArticleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("error loading files: %w", err)
	}

	for _, a := range articles {
		a.Keywords = keywords[a.ID]
		a.Files = files[a.ID]
	}
	return nil
}

func loadArticle(ctx context.Context, repos *repositories.Repositories, id int64) (*models.Article, error) {
	article, err := repos.Articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hydrate(ctx, repos, []*models.Article{article}); err != nil {
		return nil, err
	}
	return article, nil
}

// GetArticle counts the read and returns the article with its keywords linked in the body
func (s *articleServiceImpl) GetArticle(ctx context.Context, t tenant.Tenant, id int64) (*dto.ArticleResponse, error) {
	resp, err := s.get(ctx, t, id)
	metrics.ObserveArticleOperation(t.Connection.String(), "get", err)
	return resp, err
}

func (s *articleServiceImpl) get(ctx context.Context, t tenant.Tenant, id int64) (*dto.ArticleResponse, error) {
	repos, err := s.store.Repositories(t.Connection)
	if err != nil {
		return nil, err
	}

	if _, err := repos.Articles.IncrementVisitCount(ctx, id); err != nil {
		return nil, err
	}

	article, err := loadArticle(ctx, repos, id)
	if err != nil {
		return nil, err
	}

	article.Content = s.linker.Link(t.Connection.String(), article.Content, article.KeywordTexts())
	resp := dto.FromArticle(t.Connection.String(), article, s.storage.URL)
	return &resp, nil
}

// validateForm re-checks the form independently of transport binding
func validateForm(form dto.ArticleForm) error {
	verr := apperrors.NewValidationError()

	if form.ClassID <= 0 {
		verr.Add("class_id", "class_id is required")
	}
	if form.SubjectID <= 0 {
		verr.Add("subject_id", "subject_id is required")
	}
	if form.SemesterID <= 0 {
		verr.Add("semester_id", "semester_id is required")
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		verr.Add("title", "title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLength {
		verr.Add("title", fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}

	if strings.TrimSpace(form.Content) == "" {
		verr.Add("content", "content is required")
	}

	category := strings.TrimSpace(form.FileCategory)
	if category == "" {
		verr.Add("file_category", "file_category is required")
	} else if utf8.RuneCountInString(category) > maxCategoryLength {
		verr.Add("file_category", fmt.Sprintf("file_category must be at most %d characters", maxCategoryLength))
	}

	if utf8.RuneCountInString(form.FileName) > maxFileNameLength {
		verr.Add("file_name", fmt.Sprintf("file_name must be at most %d characters", maxFileNameLength))
	}
	if utf8.RuneCountInString(form.MetaDescription) > content.MetaDescriptionMaxLen {
		verr.Add("meta_description", fmt.Sprintf("meta_description must be at most %d characters", content.MetaDescriptionMaxLen))
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func metaFor(form dto.ArticleForm, keywords []string) string {
	return content.MetaDescription(content.MetaInput{
		Explicit:    form.MetaDescription,
		Title:       form.Title,
		Keywords:    strings.Join(keywords, ", "),
		Body:        form.Content,
		UseTitle:    form.UseTitleForMeta,
		UseKeywords: form.UseKeywordsForMeta,
	})
}

// checkReferences verifies that class, subject and semester exist in the partition
func checkReferences(ctx context.Context, repos *repositories.Repositories, form dto.ArticleForm) (*models.SchoolClass, error) {
	verr := apperrors.NewValidationError()

	class, err := repos.Catalog.GetClass(ctx, form.ClassID)
	if errors.Is(err, apperrors.ErrClassNotFound) {
		verr.Add("class_id", "selected class does not exist")
	} else if err != nil {
		return nil, err
	}

	ok, err := repos.Catalog.SubjectExists(ctx, form.SubjectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		verr.Add("subject_id", "selected subject does not exist")
	}

	ok, err = repos.Catalog.SemesterExists(ctx, form.SemesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		verr.Add("semester_id", "selected semester does not exist")
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return class, nil
}

// syncKeywords replaces the article's keyword set with the parsed tokens
func syncKeywords(ctx context.Context, repos *repositories.Repositories, articleID int64, keywords []string) error {
	ids := make([]int64, 0, len(keywords))
	for _, text := range keywords {
		kw, err := repos.Keywords.FindOrCreate(ctx, text)
		if err != nil {
			return fmt.Errorf("error saving keyword %q: %w", text, err)
		}
		ids = append(ids, kw.ID)
	}
	return repos.Keywords.ReplaceForArticle(ctx, articleID, ids)
}

// uploadFileName picks the stored file name. An override without extension keeps the upload's extension.
func uploadFileName(upload *Upload, override string) string {
	original := path.Base(strings.ReplaceAll(upload.Filename, "\\", "/"))
	name := strings.TrimSpace(override)
	if name == "" {
		return original
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if path.Ext(name) == "" {
		name += path.Ext(original)
	}
	return name
}

// storagePath builds files/{tenant}/{class}/{category}/{filename}
func storagePath(t tenant.Tenant, gradeName, category, filename string) string {
	classSegment := slug.Make(gradeName)
	if classSegment == "" {
		classSegment = defaultClassSegment
	}
	categorySegment := slug.Make(category)
	if categorySegment == "" {
		categorySegment = defaultCategorySegment
	}
	return path.Join("files", t.Slug(), classSegment, categorySegment, filename)
}

// storeUpload writes the blob and returns the unsaved file row describing it
func (s *articleServiceImpl) storeUpload(ctx context.Context, t tenant.Tenant, class *models.SchoolClass, form dto.ArticleForm, upload *Upload) (*models.File, error) {
	name := uploadFileName(upload, form.FileName)
	if name == "" || name == "." || name == ".." || name == "/" {
		field := "file"
		if strings.TrimSpace(form.FileName) != "" {
			field = "file_name"
		}
		return nil, apperrors.NewValidationError().Add(field, "file name is invalid")
	}

	gradeName := ""
	if class != nil {
		gradeName = class.GradeName
	}

	stored, err := s.storage.Store(ctx, storagePath(t, gradeName, form.FileCategory, name), upload.Reader)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to store uploaded file", err)
	}

	return &models.File{
		FilePath:     stored,
		FileType:     strings.ToLower(strings.TrimPrefix(path.Ext(name), ".")),
		FileCategory: strings.TrimSpace(form.FileCategory),
		FileName:     path.Base(stored),
		FileSize:     upload.Size,
	}, nil
}

// removeBlob deletes a storage object if it is still there. Failures are logged only.
func (s *articleServiceImpl) removeBlob(ctx context.Context, p string) {
	exists, err := s.storage.Exists(ctx, p)
	if err == nil && !exists {
		return
	}
	if err == nil {
		err = s.storage.Delete(ctx, p)
	}
	if err != nil {
		metrics.BlobCleanupFailures.Inc()
		s.logger.Error().Err(err).Str("path", p).Msg("Failed to remove stored file")
	}
}

// txError keeps classified errors and wraps everything else as a transaction failure
func txError(err error) error {
	if err == nil {
		return nil
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return err
	}
	if constraint, ok := dberrors.ForeignKeyViolation(err); ok {
		return apperrors.NewValidationError().Add(foreignKeyField(constraint), "referenced record does not exist")
	}
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrStorageFailure, apperrors.ErrPartitionUnknown) {
		return err
	}
	return apperrors.NewTransactionError(err)
}

func foreignKeyField(constraint string) string {
	for _, field := range []string{"class_id", "subject_id", "semester_id"} {
		if strings.Contains(constraint, field) {
			return field
		}
	}
	return "article"
}

// CreateArticle persists the article, its keywords and its upload atomically, then publishes it
func (s *articleServiceImpl) CreateArticle(ctx context.Context, t tenant.Tenant, authorID int64, in ArticleInput) (*dto.ArticleResponse, error) {
	resp, err := s.create(ctx, t, authorID, in)
	metrics.ObserveArticleOperation(t.Connection.String(), "create", err)
	return resp, err
}

func (s *articleServiceImpl) create(ctx context.Context, t tenant.Tenant, authorID int64, in ArticleInput) (*dto.ArticleResponse, error) {
	if err := validateForm(in.Form); err != nil {
		return nil, err
	}

	keywords := content.ParseKeywords(in.Form.Keywords)
	article := &models.Article{
		ClassID:         in.Form.ClassID,
		SubjectID:       in.Form.SubjectID,
		SemesterID:      in.Form.SemesterID,
		Title:           strings.TrimSpace(in.Form.Title),
		Content:         in.Form.Content,
		MetaDescription: metaFor(in.Form, keywords),
		AuthorID:        authorID,
	}

	var class *models.SchoolClass
	var storedPath string

	err := s.store.WithTransaction(ctx, t.Connection, func(ctx context.Context, repos *repositories.Repositories) error {
		var err error
		class, err = checkReferences(ctx, repos, in.Form)
		if err != nil {
			return err
		}

		if err := repos.Articles.Create(ctx, article); err != nil {
			return err
		}

		if err := syncKeywords(ctx, repos, article.ID, keywords); err != nil {
			return err
		}

		if in.Upload != nil {
			file, err := s.storeUpload(ctx, t, class, in.Form, in.Upload)
			if err != nil {
				return err
			}
			storedPath = file.FilePath
			file.ArticleID = article.ID
			if err := repos.Files.Create(ctx, file); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if storedPath != "" {
			s.removeBlob(context.WithoutCancel(ctx), storedPath)
		}
		return nil, txError(err)
	}

	s.publish(t, article, class)

	repos, err := s.store.Repositories(t.Connection)
	if err != nil {
		return nil, err
	}
	created, err := loadArticle(ctx, repos, article.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading created article: %w", err)
	}

	s.logger.Info().
		Str("connection", t.Connection.String()).
		Int64("articleID", created.ID).
		Int64("authorID", authorID).
		Msg("Article created")

	resp := dto.FromArticle(t.Connection.String(), created, s.storage.URL)
	return &resp, nil
}

func (s *articleServiceImpl) publish(t tenant.Tenant, article *models.Article, class *models.SchoolClass) {
	if s.publisher == nil {
		return
	}

	event := notifications.ArticlePublished{
		Connection:  t.Connection,
		ArticleID:   article.ID,
		Title:       article.Title,
		AuthorID:    article.AuthorID,
		PublishedAt: article.CreatedAt,
	}
	if class != nil {
		event.GradeName = class.GradeName
	}

	if !s.publisher.Publish(event) {
		s.logger.Warn().
			Str("connection", t.Connection.String()).
			Int64("articleID", article.ID).
			Msg("Article notification not queued")
	}
}

// UpdateArticle overwrites the article in one transaction. Keywords are replaced only when supplied;
// a new upload replaces the first attached file.
func (s *articleServiceImpl) UpdateArticle(ctx context.Context, t tenant.Tenant, id int64, in ArticleInput) (*dto.ArticleResponse, error) {
	resp, err := s.update(ctx, t, id, in)
	metrics.ObserveArticleOperation(t.Connection.String(), "update", err)
	return resp, err
}

func (s *articleServiceImpl) update(ctx context.Context, t tenant.Tenant, id int64, in ArticleInput) (*dto.ArticleResponse, error) {
	if err := validateForm(in.Form); err != nil {
		return nil, err
	}

	keywords := content.ParseKeywords(in.Form.Keywords)

	var storedPath string
	var replacedPath string

	err := s.store.WithTransaction(ctx, t.Connection, func(ctx context.Context, repos *repositories.Repositories) error {
		article, err := repos.Articles.GetByID(ctx, id)
		if err != nil {
			return err
		}

		class, err := checkReferences(ctx, repos, in.Form)
		if err != nil {
			return err
		}

		metaKeywords := keywords
		if !in.KeywordsProvided {
			current, err := repos.Keywords.ListByArticleIDs(ctx, []int64{id})
			if err != nil {
				return err
			}
			metaKeywords = (&models.Article{Keywords: current[id]}).KeywordTexts()
		}

		article.ClassID = in.Form.ClassID
		article.SubjectID = in.Form.SubjectID
		article.SemesterID = in.Form.SemesterID
		article.Title = strings.TrimSpace(in.Form.Title)
		article.Content = in.Form.Content
		article.MetaDescription = metaFor(in.Form, metaKeywords)

		if err := repos.Articles.Update(ctx, article); err != nil {
			return err
		}

		if in.KeywordsProvided {
			if err := syncKeywords(ctx, repos, id, keywords); err != nil {
				return err
			}
		}

		if in.Upload == nil {
			return nil
		}

		existing, err := repos.Files.ListByArticle(ctx, id)
		if err != nil {
			return err
		}

		file, err := s.storeUpload(ctx, t, class, in.Form, in.Upload)
		if err != nil {
			return err
		}
		storedPath = file.FilePath

		if len(existing) > 0 {
			if err := repos.Files.Delete(ctx, existing[0].ID); err != nil {
				return err
			}
			replacedPath = existing[0].FilePath
		}

		file.ArticleID = id
		return repos.Files.Create(ctx, file)
	})
	if err != nil {
		if storedPath != "" {
			s.removeBlob(context.WithoutCancel(ctx), storedPath)
		}
		return nil, txError(err)
	}

	if replacedPath != "" && replacedPath != storedPath {
		s.removeBlob(context.WithoutCancel(ctx), replacedPath)
	}

	repos, err := s.store.Repositories(t.Connection)
	if err != nil {
		return nil, err
	}
	updated, err := loadArticle(ctx, repos, id)
	if err != nil {
		return nil, fmt.Errorf("error loading updated article: %w", err)
	}

	resp := dto.FromArticle(t.Connection.String(), updated, s.storage.URL)
	return &resp, nil
}

// DeleteArticle removes the article and its file rows in one transaction, then their storage objects.
// Keywords stay; only the links to this article go.
func (s *articleServiceImpl) DeleteArticle(ctx context.Context, t tenant.Tenant, id int64) error {
	err := s.delete(ctx, t, id)
	metrics.ObserveArticleOperation(t.Connection.String(), "delete", err)
	return err
}

func (s *articleServiceImpl) delete(ctx context.Context, t tenant.Tenant, id int64) error {
	var removed []models.File

	err := s.store.WithTransaction(ctx, t.Connection, func(ctx context.Context, repos *repositories.Repositories) error {
		if _, err := repos.Articles.GetByID(ctx, id); err != nil {
			return err
		}

		var err error
		removed, err = repos.Files.DeleteByArticle(ctx, id)
		if err != nil {
			return err
		}
		return repos.Articles.Delete(ctx, id)
	})
	if err != nil {
		return txError(err)
	}

	cleanupCtx := context.WithoutCancel(ctx)
	for _, f := range removed {
		s.removeBlob(cleanupCtx, f.FilePath)
	}

	s.logger.Info().
		Str("connection", t.Connection.String()).
		Int64("articleID", id).
		Int("files", len(removed)).
		Msg("Article deleted")
	return nil
}
