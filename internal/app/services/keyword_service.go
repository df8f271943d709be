package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/pkg/filestorage"
	"github.com/tuhmaz/edu/internal/pkg/helpers"
	"github.com/tuhmaz/edu/internal/tenant"
)

// KeywordService serves the keyword listing pages the article links point to
type KeywordService interface {
	ListArticlesByKeyword(ctx context.Context, conn tenant.Connection, keyword string, page, size int) (*dto.KeywordArticlesResponse, error)
}

// keywordServiceImpl implements KeywordService
type keywordServiceImpl struct {
	store   repositories.Store
	storage filestorage.BlobStorage
}

// NewKeywordService creates a new KeywordService
func NewKeywordService(store repositories.Store, storage filestorage.BlobStorage) KeywordService {
	return &keywordServiceImpl{store: store, storage: storage}
}

// ListArticlesByKeyword returns a page of the articles tagged with keyword in conn
func (s *keywordServiceImpl) ListArticlesByKeyword(ctx context.Context, conn tenant.Connection, keyword string, page, size int) (*dto.KeywordArticlesResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperrors.ErrKeywordNotFound
	}

	repos, err := s.store.Repositories(conn)
	if err != nil {
		return nil, err
	}

	kw, err := repos.Keywords.GetByText(ctx, keyword)
	if err != nil {
		return nil, err
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	articles, total, err := repos.Articles.List(ctx, repositories.ArticleFilter{KeywordID: &kw.ID}, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing articles for keyword: %w", err)
	}
	if err := hydrate(ctx, repos, articles); err != nil {
		return nil, err
	}

	return &dto.KeywordArticlesResponse{
		Keyword:    kw.Keyword,
		Articles:   dto.FromArticles(conn.String(), articles, s.storage.URL),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}
