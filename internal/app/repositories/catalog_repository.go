package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
)

// CatalogRepository reads and seeds the classes, subjects and semesters of one partition
type CatalogRepository interface {
	GetClass(ctx context.Context, id int64) (*models.SchoolClass, error)
	SubjectExists(ctx context.Context, id int64) (bool, error)
	SemesterExists(ctx context.Context, id int64) (bool, error)
	ListClasses(ctx context.Context) ([]models.SchoolClass, error)
	ListSubjects(ctx context.Context, gradeLevel *int) ([]models.Subject, error)
	ListSemesters(ctx context.Context, gradeLevel *int) ([]models.Semester, error)
	UpsertClass(ctx context.Context, class *models.SchoolClass) error
	UpsertSubject(ctx context.Context, subject *models.Subject) error
	UpsertSemester(ctx context.Context, semester *models.Semester) error
}

type catalogRepository struct {
	db DBTX
}

// NewCatalogRepository creates a new CatalogRepository
func NewCatalogRepository(db DBTX) CatalogRepository {
	return &catalogRepository{db: db}
}

// GetClass retrieves a school class by ID
func (r *catalogRepository) GetClass(ctx context.Context, id int64) (*models.SchoolClass, error) {
	sql, args, err := psql.Select("id", "grade_name", "grade_level", "created_at", "updated_at").
		From("school_classes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var c models.SchoolClass
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.GradeName, &c.GradeLevel, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error getting class: %w", err)
	}
	return &c, nil
}

func (r *catalogRepository) exists(ctx context.Context, table string, id int64) (bool, error) {
	sql, args, err := psql.Select("1").From(table).Where(squirrel.Eq{"id": id}).Prefix("SELECT EXISTS(").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking %s: %w", table, err)
	}
	return exists, nil
}

// SubjectExists checks if a subject exists
func (r *catalogRepository) SubjectExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "subjects", id)
}

// SemesterExists checks if a semester exists
func (r *catalogRepository) SemesterExists(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, "semesters", id)
}

// ListClasses returns every class ordered by grade level
func (r *catalogRepository) ListClasses(ctx context.Context) ([]models.SchoolClass, error) {
	sql, args, err := psql.Select("id", "grade_name", "grade_level", "created_at", "updated_at").
		From("school_classes").
		OrderBy("grade_level").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var classes []models.SchoolClass
	for rows.Next() {
		var c models.SchoolClass
		if err := rows.Scan(&c.ID, &c.GradeName, &c.GradeLevel, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ListSubjects returns subjects, optionally of one grade level
func (r *catalogRepository) ListSubjects(ctx context.Context, gradeLevel *int) ([]models.Subject, error) {
	query := psql.Select("id", "subject_name", "grade_level", "created_at", "updated_at").
		From("subjects").
		OrderBy("grade_level", "subject_name")
	if gradeLevel != nil {
		query = query.Where(squirrel.Eq{"grade_level": *gradeLevel})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.SubjectName, &s.GradeLevel, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// ListSemesters returns semesters, optionally of one grade level
func (r *catalogRepository) ListSemesters(ctx context.Context, gradeLevel *int) ([]models.Semester, error) {
	query := psql.Select("id", "semester_name", "grade_level", "created_at", "updated_at").
		From("semesters").
		OrderBy("grade_level", "semester_name")
	if gradeLevel != nil {
		query = query.Where(squirrel.Eq{"grade_level": *gradeLevel})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var semesters []models.Semester
	for rows.Next() {
		var s models.Semester
		if err := rows.Scan(&s.ID, &s.SemesterName, &s.GradeLevel, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		semesters = append(semesters, s)
	}
	return semesters, rows.Err()
}

// UpsertClass inserts a class or renames the existing class of the same grade level
func (r *catalogRepository) UpsertClass(ctx context.Context, class *models.SchoolClass) error {
	sql, args, err := psql.Insert("school_classes").
		Columns("grade_name", "grade_level").
		Values(class.GradeName, class.GradeLevel).
		Suffix("ON CONFLICT (grade_level) DO UPDATE SET grade_name = EXCLUDED.grade_name, updated_at = NOW() RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt); err != nil {
		return fmt.Errorf("error upserting class: %w", err)
	}
	return nil
}

// UpsertSubject inserts a subject unless one with the same name and grade exists
func (r *catalogRepository) UpsertSubject(ctx context.Context, subject *models.Subject) error {
	sql, args, err := psql.Insert("subjects").
		Columns("subject_name", "grade_level").
		Values(subject.SubjectName, subject.GradeLevel).
		Suffix("ON CONFLICT (subject_name, grade_level) DO UPDATE SET updated_at = NOW() RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
		return fmt.Errorf("error upserting subject: %w", err)
	}
	return nil
}

// UpsertSemester inserts a semester unless one with the same name and grade exists
func (r *catalogRepository) UpsertSemester(ctx context.Context, semester *models.Semester) error {
	sql, args, err := psql.Insert("semesters").
		Columns("semester_name", "grade_level").
		Values(semester.SemesterName, semester.GradeLevel).
		Suffix("ON CONFLICT (semester_name, grade_level) DO UPDATE SET updated_at = NOW() RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&semester.ID, &semester.CreatedAt, &semester.UpdatedAt); err != nil {
		return fmt.Errorf("error upserting semester: %w", err)
	}
	return nil
}
