package models

import "time"

// SchoolClass is a grade an article is written for
type SchoolClass struct {
	ID         int64     `json:"id" db:"id"`
	GradeName  string    `json:"gradeName" db:"grade_name"`
	GradeLevel int       `json:"gradeLevel" db:"grade_level"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Subject is taught in one grade level
type Subject struct {
	ID          int64     `json:"id" db:"id"`
	SubjectName string    `json:"subjectName" db:"subject_name"`
	GradeLevel  int       `json:"gradeLevel" db:"grade_level"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Semester of a grade level
type Semester struct {
	ID           int64     `json:"id" db:"id"`
	SemesterName string    `json:"semesterName" db:"semester_name"`
	GradeLevel   int       `json:"gradeLevel" db:"grade_level"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
