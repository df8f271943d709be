package models

import "time"

// Article is a piece of content in one country partition.
// Creating an article publishes it; there is no draft state.
type Article struct {
	ID              int64     `json:"id" db:"id"`
	ClassID         int64     `json:"classId" db:"class_id"`
	SubjectID       int64     `json:"subjectId" db:"subject_id"`
	SemesterID      int64     `json:"semesterId" db:"semester_id"`
	Title           string    `json:"title" db:"title"`
	Content         string    `json:"content" db:"content"`
	MetaDescription string    `json:"metaDescription" db:"meta_description"`
	AuthorID        int64     `json:"authorId" db:"author_id"`
	VisitCount      int64     `json:"visitCount" db:"visit_count"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	// Relations, loaded on demand
	Class    *SchoolClass `json:"class,omitempty" db:"-"`
	Subject  *Subject     `json:"subject,omitempty" db:"-"`
	Semester *Semester    `json:"semester,omitempty" db:"-"`
	Keywords []Keyword    `json:"keywords,omitempty" db:"-"`
	Files    []File       `json:"files,omitempty" db:"-"`
}

// KeywordTexts returns the keyword strings in attachment order.
func (a *Article) KeywordTexts() []string {
	texts := make([]string, 0, len(a.Keywords))
	for _, k := range a.Keywords {
		texts = append(texts, k.Keyword)
	}
	return texts
}
