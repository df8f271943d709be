package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/db"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/tenant"
)

type catalogFixture struct {
	class    models.SchoolClass
	subject  models.Subject
	semester models.Semester
}

func seedCatalog(t *testing.T, repos *repositories.Repositories) catalogFixture {
	t.Helper()
	ctx := context.Background()

	f := catalogFixture{
		class:    models.SchoolClass{GradeName: "Grade 1", GradeLevel: 1},
		subject:  models.Subject{SubjectName: "Mathematics", GradeLevel: 1},
		semester: models.Semester{SemesterName: "First Semester", GradeLevel: 1},
	}
	require.NoError(t, repos.Catalog.UpsertClass(ctx, &f.class))
	require.NoError(t, repos.Catalog.UpsertSubject(ctx, &f.subject))
	require.NoError(t, repos.Catalog.UpsertSemester(ctx, &f.semester))
	return f
}

func newArticle(f catalogFixture, title string) *models.Article {
	return &models.Article{
		ClassID:    f.class.ID,
		SubjectID:  f.subject.ID,
		SemesterID: f.semester.ID,
		Title:      title,
		Content:    "math is fun",
		AuthorID:   1,
	}
}

func TestRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	repos := repositories.NewRepositories(testDB.Pool)
	ctx := context.Background()
	allTables := []string{"notifications", "users", "files", "article_keyword", "keywords", "articles", "semesters", "subjects", "school_classes"}

	t.Run("article lifecycle with keywords and files", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)
		f := seedCatalog(t, repos)

		article := newArticle(f, "Intro")
		require.NoError(t, repos.Articles.Create(ctx, article))
		assert.NotZero(t, article.ID)
		assert.Zero(t, article.VisitCount)

		var ids []int64
		for _, text := range []string{"math", "science", "math"} {
			k, err := repos.Keywords.FindOrCreate(ctx, text)
			require.NoError(t, err)
			ids = append(ids, k.ID)
		}
		assert.Equal(t, ids[0], ids[2])
		require.NoError(t, repos.Keywords.ReplaceForArticle(ctx, article.ID, ids))

		byArticle, err := repos.Keywords.ListByArticleIDs(ctx, []int64{article.ID})
		require.NoError(t, err)
		require.Len(t, byArticle[article.ID], 2)
		assert.Equal(t, "math", byArticle[article.ID][0].Keyword)

		file := &models.File{ArticleID: article.ID, FilePath: "files/jordan/grade-1/notes/a.pdf", FileType: "pdf", FileCategory: "notes", FileName: "a.pdf"}
		require.NoError(t, repos.Files.Create(ctx, file))

		got, err := repos.Articles.GetByID(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, "Grade 1", got.Class.GradeName)
		assert.Equal(t, "Mathematics", got.Subject.SubjectName)

		count, err := repos.Articles.IncrementVisitCount(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		count, err = repos.Articles.IncrementVisitCount(ctx, article.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		removed, err := repos.Files.DeleteByArticle(ctx, article.ID)
		require.NoError(t, err)
		require.Len(t, removed, 1)
		assert.Equal(t, file.FilePath, removed[0].FilePath)

		require.NoError(t, repos.Articles.Delete(ctx, article.ID))
		_, err = repos.Articles.GetByID(ctx, article.ID)
		assert.True(t, errors.Is(err, apperrors.ErrArticleNotFound))

		// keywords survive their articles
		k, err := repos.Keywords.GetByText(ctx, "science")
		require.NoError(t, err)
		assert.Equal(t, "science", k.Keyword)
	})

	t.Run("list filters by grade level and keyword", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)
		f := seedCatalog(t, repos)

		other := models.Subject{SubjectName: "Science", GradeLevel: 2}
		require.NoError(t, repos.Catalog.UpsertSubject(ctx, &other))

		first := newArticle(f, "First")
		require.NoError(t, repos.Articles.Create(ctx, first))
		second := newArticle(f, "Second")
		second.SubjectID = other.ID
		require.NoError(t, repos.Articles.Create(ctx, second))

		all, total, err := repos.Articles.List(ctx, repositories.ArticleFilter{}, 0, 25)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)

		grade := 2
		filtered, total, err := repos.Articles.List(ctx, repositories.ArticleFilter{GradeLevel: &grade}, 0, 25)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Second", filtered[0].Title)

		k, err := repos.Keywords.FindOrCreate(ctx, "algebra")
		require.NoError(t, err)
		require.NoError(t, repos.Keywords.ReplaceForArticle(ctx, first.ID, []int64{k.ID}))

		tagged, total, err := repos.Articles.List(ctx, repositories.ArticleFilter{KeywordID: &k.ID}, 0, 25)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "First", tagged[0].Title)
	})

	t.Run("catalog existence checks", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)
		f := seedCatalog(t, repos)

		ok, err := repos.Catalog.SubjectExists(ctx, f.subject.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repos.Catalog.SemesterExists(ctx, f.semester.ID+100)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repos.Catalog.GetClass(ctx, f.class.ID+100)
		assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

		grade := 1
		subjects, err := repos.Catalog.ListSubjects(ctx, &grade)
		require.NoError(t, err)
		assert.Len(t, subjects, 1)
	})

	t.Run("transaction rolls back every write", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)
		f := seedCatalog(t, repos)
		store := repositories.NewPartitionStore(db.NewRegistry(map[tenant.Connection]*db.PostgresDB{
			tenant.ConnectionJordan: db.NewPostgresDBFromPool("edu_test", testDB.Pool),
		}))

		boom := errors.New("boom")
		err := store.WithTransaction(ctx, tenant.ConnectionJordan, func(ctx context.Context, tx *repositories.Repositories) error {
			if err := tx.Articles.Create(ctx, newArticle(f, "Rolled back")); err != nil {
				return err
			}
			if _, err := tx.Keywords.FindOrCreate(ctx, "ghost"); err != nil {
				return err
			}
			return boom
		})
		assert.True(t, errors.Is(err, boom))

		_, total, err := repos.Articles.List(ctx, repositories.ArticleFilter{}, 0, 25)
		require.NoError(t, err)
		assert.Zero(t, total)

		_, err = repos.Keywords.GetByText(ctx, "ghost")
		assert.True(t, errors.Is(err, apperrors.ErrKeywordNotFound))

		_, err = store.Repositories(tenant.ConnectionSaudi)
		assert.True(t, errors.Is(err, apperrors.ErrPartitionUnknown))
	})

	t.Run("users and notifications", func(t *testing.T) {
		testDB.TruncateTables(t, allTables...)

		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			created, err := repos.Users.CreateIfMissing(ctx, &models.User{Email: email, Name: email, Password: "x", IsActive: true})
			require.NoError(t, err)
			assert.True(t, created)
		}
		created, err := repos.Users.CreateIfMissing(ctx, &models.User{Email: "a@example.com", Name: "dup", Password: "x", IsActive: true})
		require.NoError(t, err)
		assert.False(t, created)

		page, err := repos.Users.ListActiveIDs(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		rest, err := repos.Users.ListActiveIDs(ctx, page[1], 2)
		require.NoError(t, err)
		assert.Len(t, rest, 1)

		n, err := repos.Notifications.CreateBatch(ctx, append(page, rest...), models.NotificationTypeArticlePublished, []byte(`{"articleId":1}`))
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
