package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/tuhmaz/edu/internal/app/models"
	appRepos "github.com/tuhmaz/edu/internal/app/repositories"
	"github.com/tuhmaz/edu/internal/pkg/auth"
	"github.com/tuhmaz/edu/internal/tenant"
)

// GradeLevels is the number of grades seeded into every partition
const GradeLevels = 12

var (
	defaultSubjects  = []string{"Arabic", "English", "Mathematics", "Science"}
	defaultSemesters = []string{"First Semester", "Second Semester"}
)

// Admin is the dashboard account created on first start
type Admin struct {
	Email    string
	Name     string
	Password string
}

// CreateDefaultData seeds the catalog of every partition and the admin user of the user partition.
// Existing rows are kept; errors are collected so one partition cannot block the others.
func CreateDefaultData(
	ctx context.Context,
	partitions map[tenant.Connection]*appRepos.Repositories,
	userPartition tenant.Connection,
	admin Admin,
	lgr zerolog.Logger,
) error {
	var finalErr error

	for conn, repos := range partitions {
		lgr.Info().Str("connection", conn.String()).Msg("Checking/Creating default catalog...")
		if err := seedCatalog(ctx, repos.Catalog); err != nil {
			lgr.Error().Err(err).Str("connection", conn.String()).Msg("Error creating default catalog")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if admin.Email == "" || admin.Password == "" {
		lgr.Warn().Msg("Admin credentials not configured, skipping default admin user")
		return finalErr
	}

	repos, ok := partitions[userPartition]
	if !ok {
		return errors.Join(finalErr, fmt.Errorf("user partition %s is not configured", userPartition))
	}

	if err := seedAdmin(ctx, repos.Users, admin, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		finalErr = errors.Join(finalErr, err)
	}
	return finalErr
}

func seedCatalog(ctx context.Context, catalog appRepos.CatalogRepository) error {
	for level := 1; level <= GradeLevels; level++ {
		class := &appModels.SchoolClass{GradeName: fmt.Sprintf("Grade %d", level), GradeLevel: level}
		if err := catalog.UpsertClass(ctx, class); err != nil {
			return err
		}

		for _, name := range defaultSubjects {
			if err := catalog.UpsertSubject(ctx, &appModels.Subject{SubjectName: name, GradeLevel: level}); err != nil {
				return err
			}
		}
		for _, name := range defaultSemesters {
			if err := catalog.UpsertSemester(ctx, &appModels.Semester{SemesterName: name, GradeLevel: level}); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, users appRepos.UserRepository, admin Admin, lgr zerolog.Logger) error {
	hashedPassword, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	created, err := users.CreateIfMissing(ctx, &appModels.User{
		Email:    admin.Email,
		Name:     name,
		Password: hashedPassword,
		IsActive: true,
	})
	if err != nil {
		return err
	}
	if created {
		lgr.Info().Str("email", admin.Email).Msg("Default admin user created")
	}
	return nil
}
