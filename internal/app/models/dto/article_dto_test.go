package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuhmaz/edu/internal/app/models"
	"github.com/tuhmaz/edu/internal/pkg/validation"
)

func TestFromArticle(t *testing.T) {
	a := &models.Article{
		ID:       7,
		Title:    "Intro",
		Class:    &models.SchoolClass{ID: 1, GradeName: "Grade 1", GradeLevel: 1},
		Keywords: []models.Keyword{{ID: 1, Keyword: "math"}},
		Files:    []models.File{{ID: 3, FilePath: "files/jordan/grade-1/notes/a.pdf", FileType: "pdf"}},
	}

	resp := FromArticle("jo", a, func(p string) string { return "/uploads/" + p })

	assert.Equal(t, "jo", resp.Connection)
	assert.Equal(t, []string{"math"}, resp.Keywords)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "/uploads/files/jordan/grade-1/notes/a.pdf", resp.Files[0].FileURL)
	assert.Equal(t, "Grade 1", resp.Class.GradeName)
	assert.Nil(t, resp.Subject)
}

func TestValidationFields(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, validation.Register(v))

	err := v.Struct(ArticleForm{Title: "this title is definitely longer than sixty characters in total!!"})
	require.Error(t, err)

	fields, ok := ValidationFields(err)
	require.True(t, ok)
	assert.Equal(t, "class_id is required", fields["class_id"])
	assert.Equal(t, "title must be at most 60 characters", fields["title"])
	assert.Contains(t, fields, "content")
	assert.Contains(t, fields, "file_category")
	assert.NotContains(t, fields, "keywords")

	err = v.Struct(ArticleForm{ClassID: 1, SubjectID: 1, SemesterID: 1, Title: " ", Content: "x", FileCategory: "notes"})
	fields, ok = ValidationFields(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"title": "title must not be blank"}, fields)

	_, ok = ValidationFields(assert.AnError)
	assert.False(t, ok)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "class_id", toSnakeCase("ClassID"))
	assert.Equal(t, "meta_description", toSnakeCase("MetaDescription"))
	assert.Equal(t, "use_title_for_meta", toSnakeCase("UseTitleForMeta"))
	assert.Equal(t, "title", toSnakeCase("Title"))
}

func TestFieldErrorsFromMap(t *testing.T) {
	list := FieldErrorsFromMap(map[string]string{"title": "too long", "class_id": "does not exist"})
	assert.Equal(t, []FieldError{{"class_id", "does not exist"}, {"title", "too long"}}, list)
}
