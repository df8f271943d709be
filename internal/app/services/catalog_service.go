package services

import (
	"context"
	"fmt"

	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/tenant"
)

// CatalogService exposes the classes, subjects and semesters an article can reference
type CatalogService interface {
	GetOptions(ctx context.Context, t tenant.Tenant, gradeLevel *int) (*dto.ArticleOptionsResponse, error)
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	store repositories.Store
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(store repositories.Store) CatalogService {
	return &catalogServiceImpl{store: store}
}

// GetOptions returns every class of the partition plus subjects and semesters, optionally of one grade
func (s *catalogServiceImpl) GetOptions(ctx context.Context, t tenant.Tenant, gradeLevel *int) (*dto.ArticleOptionsResponse, error) {
	repos, err := s.store.Repositories(t.Connection)
	if err != nil {
		return nil, err
	}

	classes, err := repos.Catalog.ListClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	subjects, err := repos.Catalog.ListSubjects(ctx, gradeLevel)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	semesters, err := repos.Catalog.ListSemesters(ctx, gradeLevel)
	if err != nil {
		return nil, fmt.Errorf("error listing semesters: %w", err)
	}

	resp := &dto.ArticleOptionsResponse{
		Classes:   make([]dto.ClassData, 0, len(classes)),
		Subjects:  make([]dto.SubjectData, 0, len(subjects)),
		Semesters: make([]dto.SemesterData, 0, len(semesters)),
	}
	for i := range classes {
		resp.Classes = append(resp.Classes, *dto.NewClassData(&classes[i]))
	}
	for i := range subjects {
		resp.Subjects = append(resp.Subjects, *dto.NewSubjectData(&subjects[i]))
	}
	for i := range semesters {
		resp.Semesters = append(resp.Semesters, *dto.NewSemesterData(&semesters[i]))
	}
	return resp, nil
}
