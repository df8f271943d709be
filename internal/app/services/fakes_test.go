package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/app/notifications"
	"github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/tenant"
)

var errInjected = errors.New("injected failure")

// memPartition is an in-memory partition. Transactions snapshot the whole state.
type memPartition struct {
	articles  map[int64]models.Article
	keywords  map[int64]models.Keyword
	links     map[int64][]int64
	files     map[int64]models.File
	classes   map[int64]models.SchoolClass
	subjects  map[int64]models.Subject
	semesters map[int64]models.Semester

	nextArticle, nextKeyword, nextFile int64

	// failFileCreate makes Files.Create fail, to exercise rollback
	failFileCreate bool
}

func newMemPartition() *memPartition {
	return &memPartition{
		articles:  map[int64]models.Article{},
		keywords:  map[int64]models.Keyword{},
		links:     map[int64][]int64{},
		files:     map[int64]models.File{},
		classes:   map[int64]models.SchoolClass{},
		subjects:  map[int64]models.Subject{},
		semesters: map[int64]models.Semester{},
	}
}

func (p *memPartition) clone() *memPartition {
	c := *p
	c.articles = map[int64]models.Article{}
	for k, v := range p.articles {
		c.articles[k] = v
	}
	c.keywords = map[int64]models.Keyword{}
	for k, v := range p.keywords {
		c.keywords[k] = v
	}
	c.links = map[int64][]int64{}
	for k, v := range p.links {
		c.links[k] = append([]int64(nil), v...)
	}
	c.files = map[int64]models.File{}
	for k, v := range p.files {
		c.files[k] = v
	}
	return &c
}

func (p *memPartition) seed() {
	p.classes[1] = models.SchoolClass{ID: 1, GradeName: "Grade 1", GradeLevel: 1}
	p.classes[2] = models.SchoolClass{ID: 2, GradeName: "Grade 2", GradeLevel: 2}
	p.subjects[10] = models.Subject{ID: 10, SubjectName: "Math", GradeLevel: 1}
	p.subjects[20] = models.Subject{ID: 20, SubjectName: "Science", GradeLevel: 2}
	p.semesters[100] = models.Semester{ID: 100, SemesterName: "First", GradeLevel: 1}
	p.semesters[200] = models.Semester{ID: 200, SemesterName: "First", GradeLevel: 2}
}

// memStore implements repositories.Store over memPartitions
type memStore struct {
	mu         sync.Mutex
	partitions map[tenant.Connection]*memPartition
	// afterCommit runs once a transaction has been applied
	afterCommit func()
}

func newMemStore(conns ...tenant.Connection) *memStore {
	s := &memStore{partitions: map[tenant.Connection]*memPartition{}}
	for _, c := range conns {
		p := newMemPartition()
		p.seed()
		s.partitions[c] = p
	}
	return s
}

func (s *memStore) partition(conn tenant.Connection) *memPartition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partitions[conn]
}

func (s *memStore) Repositories(conn tenant.Connection) (*repositories.Repositories, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.partitions[conn]; !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrPartitionUnknown, conn)
	}
	return memRepositories(&memHandle{store: s, conn: conn}), nil
}

func (s *memStore) WithTransaction(ctx context.Context, conn tenant.Connection, fn repositories.TxFn) error {
	s.mu.Lock()
	base, ok := s.partitions[conn]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", apperrors.ErrPartitionUnknown, conn)
	}
	work := base.clone()
	s.mu.Unlock()

	if err := fn(ctx, memRepositories(&memHandle{tx: work})); err != nil {
		return err
	}

	s.mu.Lock()
	s.partitions[conn] = work
	hook := s.afterCommit
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// memHandle resolves to the live partition or to a transaction's working copy
type memHandle struct {
	store *memStore
	conn  tenant.Connection
	tx    *memPartition
}

func (h *memHandle) get() *memPartition {
	if h.tx != nil {
		return h.tx
	}
	return h.store.partition(h.conn)
}

func memRepositories(h *memHandle) *repositories.Repositories {
	return &repositories.Repositories{
		Articles: &memArticles{h},
		Keywords: &memKeywords{h},
		Files:    &memFiles{h},
		Catalog:  &memCatalog{h},
	}
}

type memArticles struct{ h *memHandle }

func (r *memArticles) Create(ctx context.Context, a *models.Article) error {
	p := r.h.get()
	p.nextArticle++
	a.ID = p.nextArticle
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	p.articles[a.ID] = *a
	return nil
}

func (r *memArticles) Update(ctx context.Context, a *models.Article) error {
	p := r.h.get()
	current, ok := p.articles[a.ID]
	if !ok {
		return apperrors.ErrArticleNotFound
	}
	a.VisitCount = current.VisitCount
	a.CreatedAt = current.CreatedAt
	a.UpdatedAt = time.Now()
	stored := *a
	stored.Class, stored.Subject, stored.Semester = nil, nil, nil
	p.articles[a.ID] = stored
	return nil
}

func (r *memArticles) Delete(ctx context.Context, id int64) error {
	p := r.h.get()
	if _, ok := p.articles[id]; !ok {
		return apperrors.ErrArticleNotFound
	}
	delete(p.articles, id)
	delete(p.links, id)
	for fid, f := range p.files {
		if f.ArticleID == id {
			delete(p.files, fid)
		}
	}
	return nil
}

func (r *memArticles) load(p *memPartition, a models.Article) *models.Article {
	if c, ok := p.classes[a.ClassID]; ok {
		a.Class = &c
	}
	if s, ok := p.subjects[a.SubjectID]; ok {
		a.Subject = &s
	}
	if s, ok := p.semesters[a.SemesterID]; ok {
		a.Semester = &s
	}
	return &a
}

func (r *memArticles) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	p := r.h.get()
	a, ok := p.articles[id]
	if !ok {
		return nil, apperrors.ErrArticleNotFound
	}
	return r.load(p, a), nil
}

func (r *memArticles) IncrementVisitCount(ctx context.Context, id int64) (int64, error) {
	p := r.h.tx
	if p == nil {
		r.h.store.mu.Lock()
		defer r.h.store.mu.Unlock()
		p = r.h.store.partitions[r.h.conn]
	}
	a, ok := p.articles[id]
	if !ok {
		return 0, apperrors.ErrArticleNotFound
	}
	a.VisitCount++
	p.articles[id] = a
	return a.VisitCount, nil
}

func (r *memArticles) List(ctx context.Context, filter repositories.ArticleFilter, offset uint64, limit int) ([]*models.Article, int64, error) {
	p := r.h.get()
	ids := make([]int64, 0, len(p.articles))
	for id, a := range p.articles {
		if filter.GradeLevel != nil && p.subjects[a.SubjectID].GradeLevel != *filter.GradeLevel {
			continue
		}
		if filter.KeywordID != nil && !containsID(p.links[id], *filter.KeywordID) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	total := int64(len(ids))
	out := []*models.Article{}
	for i := int(offset); i < len(ids) && len(out) < limit; i++ {
		out = append(out, r.load(p, p.articles[ids[i]]))
	}
	return out, total, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type memKeywords struct{ h *memHandle }

func (r *memKeywords) FindOrCreate(ctx context.Context, text string) (*models.Keyword, error) {
	p := r.h.get()
	for _, k := range p.keywords {
		if k.Keyword == text {
			kw := k
			return &kw, nil
		}
	}
	p.nextKeyword++
	kw := models.Keyword{ID: p.nextKeyword, Keyword: text, CreatedAt: time.Now()}
	p.keywords[kw.ID] = kw
	return &kw, nil
}

func (r *memKeywords) GetByText(ctx context.Context, text string) (*models.Keyword, error) {
	for _, k := range r.h.get().keywords {
		if k.Keyword == text {
			kw := k
			return &kw, nil
		}
	}
	return nil, apperrors.ErrKeywordNotFound
}

func (r *memKeywords) ReplaceForArticle(ctx context.Context, articleID int64, keywordIDs []int64) error {
	p := r.h.get()
	ids := []int64{}
	for _, id := range keywordIDs {
		if !containsID(ids, id) {
			ids = append(ids, id)
		}
	}
	p.links[articleID] = ids
	return nil
}

func (r *memKeywords) ListByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]models.Keyword, error) {
	p := r.h.get()
	out := map[int64][]models.Keyword{}
	for _, aid := range articleIDs {
		for _, kid := range p.links[aid] {
			out[aid] = append(out[aid], p.keywords[kid])
		}
	}
	return out, nil
}

type memFiles struct{ h *memHandle }

func (r *memFiles) Create(ctx context.Context, f *models.File) error {
	p := r.h.get()
	if p.failFileCreate {
		return errInjected
	}
	p.nextFile++
	f.ID = p.nextFile
	p.files[f.ID] = *f
	return nil
}

func (r *memFiles) Delete(ctx context.Context, id int64) error {
	delete(r.h.get().files, id)
	return nil
}

func (r *memFiles) ListByArticle(ctx context.Context, articleID int64) ([]models.File, error) {
	m, err := r.ListByArticleIDs(ctx, []int64{articleID})
	return m[articleID], err
}

func (r *memFiles) listSorted(p *memPartition) []models.File {
	files := make([]models.File, 0, len(p.files))
	for _, f := range p.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ID < files[j].ID })
	return files
}

func (r *memFiles) ListByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]models.File, error) {
	out := map[int64][]models.File{}
	for _, f := range r.listSorted(r.h.get()) {
		if containsID(articleIDs, f.ArticleID) {
			out[f.ArticleID] = append(out[f.ArticleID], f)
		}
	}
	return out, nil
}

func (r *memFiles) DeleteByArticle(ctx context.Context, articleID int64) ([]models.File, error) {
	removed, _ := r.ListByArticle(ctx, articleID)
	for _, f := range removed {
		delete(r.h.get().files, f.ID)
	}
	return removed, nil
}

type memCatalog struct{ h *memHandle }

func (r *memCatalog) GetClass(ctx context.Context, id int64) (*models.SchoolClass, error) {
	c, ok := r.h.get().classes[id]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	return &c, nil
}

func (r *memCatalog) SubjectExists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.h.get().subjects[id]
	return ok, nil
}

func (r *memCatalog) SemesterExists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.h.get().semesters[id]
	return ok, nil
}

func (r *memCatalog) ListClasses(ctx context.Context) ([]models.SchoolClass, error) {
	p := r.h.get()
	out := []models.SchoolClass{}
	for _, c := range p.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GradeLevel < out[j].GradeLevel })
	return out, nil
}

func (r *memCatalog) ListSubjects(ctx context.Context, gradeLevel *int) ([]models.Subject, error) {
	out := []models.Subject{}
	for _, s := range r.h.get().subjects {
		if gradeLevel == nil || s.GradeLevel == *gradeLevel {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCatalog) ListSemesters(ctx context.Context, gradeLevel *int) ([]models.Semester, error) {
	out := []models.Semester{}
	for _, s := range r.h.get().semesters {
		if gradeLevel == nil || s.GradeLevel == *gradeLevel {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCatalog) UpsertClass(ctx context.Context, class *models.SchoolClass) error {
	return errors.New("not implemented")
}

func (r *memCatalog) UpsertSubject(ctx context.Context, subject *models.Subject) error {
	return errors.New("not implemented")
}

func (r *memCatalog) UpsertSemester(ctx context.Context, semester *models.Semester) error {
	return errors.New("not implemented")
}

// memStorage is an in-memory BlobStorage
type memStorage struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	deleted   []string
	failStore bool
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (s *memStorage) Store(ctx context.Context, p string, r io.Reader) (string, error) {
	if s.failStore {
		return "", errInjected
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[p] = data
	return p, nil
}

func (s *memStorage) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, p)
	s.deleted = append(s.deleted, p)
	return nil
}

func (s *memStorage) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blobs[p]
	return ok, nil
}

func (s *memStorage) URL(p string) string {
	return "/uploads/" + p
}

func (s *memStorage) has(p string) bool {
	ok, _ := s.Exists(context.Background(), p)
	return ok
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.ArticlePublished
	reject bool
}

func (p *recordingPublisher) Publish(event notifications.ArticlePublished) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reject {
		return false
	}
	p.events = append(p.events, event)
	return true
}

func upload(name, body string) *Upload {
	return &Upload{Filename: name, Size: int64(len(body)), Reader: bytes.NewBufferString(body)}
}
