package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/tuhmaz/edu/internal/app/models"
	appRepos "github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/tenant"
	"golang.org/x/crypto/bcrypt"
)

type fakeCatalog struct {
	appRepos.CatalogRepository
	classes   []appModels.SchoolClass
	subjects  int
	semesters int
	err       error
}

func (f *fakeCatalog) UpsertClass(_ context.Context, c *appModels.SchoolClass) error {
	if f.err != nil {
		return f.err
	}
	c.ID = int64(len(f.classes) + 1)
	f.classes = append(f.classes, *c)
	return nil
}

func (f *fakeCatalog) UpsertSubject(context.Context, *appModels.Subject) error {
	f.subjects++
	return nil
}

func (f *fakeCatalog) UpsertSemester(context.Context, *appModels.Semester) error {
	f.semesters++
	return nil
}

type fakeUsers struct {
	appRepos.UserRepository
	created []appModels.User
}

func (f *fakeUsers) CreateIfMissing(_ context.Context, u *appModels.User) (bool, error) {
	for _, existing := range f.created {
		if existing.Email == u.Email {
			return false, nil
		}
	}
	f.created = append(f.created, *u)
	return true, nil
}

func TestCreateDefaultData(t *testing.T) {
	jo, sa := &fakeCatalog{}, &fakeCatalog{}
	users := &fakeUsers{}
	partitions := map[tenant.Connection]*appRepos.Repositories{
		tenant.ConnectionJordan: {Catalog: jo, Users: users},
		tenant.ConnectionSaudi:  {Catalog: sa, Users: &fakeUsers{}},
	}
	admin := Admin{Email: "admin@edu.app", Password: "Admin123!"}

	require.NoError(t, CreateDefaultData(context.Background(), partitions, tenant.ConnectionJordan, admin, zerolog.Nop()))

	for _, catalog := range []*fakeCatalog{jo, sa} {
		require.Len(t, catalog.classes, GradeLevels)
		assert.Equal(t, "Grade 1", catalog.classes[0].GradeName)
		assert.Equal(t, GradeLevels*len(defaultSubjects), catalog.subjects)
		assert.Equal(t, GradeLevels*len(defaultSemesters), catalog.semesters)
	}

	require.Len(t, users.created, 1)
	assert.Equal(t, "Administrator", users.created[0].Name)
	assert.True(t, users.created[0].IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.created[0].Password), []byte("Admin123!")))

	// Second start keeps the existing admin
	require.NoError(t, CreateDefaultData(context.Background(), partitions, tenant.ConnectionJordan, admin, zerolog.Nop()))
	assert.Len(t, users.created, 1)
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	broken := &fakeCatalog{err: errors.New("relation does not exist")}
	healthy := &fakeCatalog{}
	partitions := map[tenant.Connection]*appRepos.Repositories{
		tenant.ConnectionJordan: {Catalog: broken},
		tenant.ConnectionEgypt:  {Catalog: healthy},
	}

	err := CreateDefaultData(context.Background(), partitions, tenant.ConnectionJordan, Admin{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relation does not exist")
	assert.Len(t, healthy.classes, GradeLevels)
}

func TestCreateDefaultDataMissingUserPartition(t *testing.T) {
	partitions := map[tenant.Connection]*appRepos.Repositories{
		tenant.ConnectionSaudi: {Catalog: &fakeCatalog{}},
	}

	err := CreateDefaultData(context.Background(), partitions, tenant.ConnectionJordan,
		Admin{Email: "a@b.c", Password: "x"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user partition jo")
}
