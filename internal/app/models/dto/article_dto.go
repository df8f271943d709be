package dto

import (
	"time"

	"github.com/tuhmaz/edu/internal/app/models"
)

// ArticleForm is the multipart form of create and update requests.
// The upload itself is read separately from the "file" part.
type ArticleForm struct {
	ClassID            int64  `form:"class_id" binding:"required,gt=0"`
	SubjectID          int64  `form:"subject_id" binding:"required,gt=0"`
	SemesterID         int64  `form:"semester_id" binding:"required,gt=0"`
	Title              string `form:"title" binding:"required,notblank,max=60"`
	Content            string `form:"content" binding:"required,notblank"`
	Keywords           string `form:"keywords" binding:"omitempty,keywordlist"`
	FileCategory       string `form:"file_category" binding:"required,notblank,max=100"`
	FileName           string `form:"file_name" binding:"omitempty,max=255"`
	MetaDescription    string `form:"meta_description" binding:"omitempty,max=120"`
	UseTitleForMeta    bool   `form:"use_title_for_meta"`
	UseKeywordsForMeta bool   `form:"use_keywords_for_meta"`
}

// ClassData is the embedded class of an article
type ClassData struct {
	ID         int64  `json:"id" example:"1"`
	GradeName  string `json:"gradeName" example:"Grade 1"`
	GradeLevel int    `json:"gradeLevel" example:"1"`
}

// SubjectData is the embedded subject of an article
type SubjectData struct {
	ID          int64  `json:"id" example:"3"`
	SubjectName string `json:"subjectName" example:"Mathematics"`
	GradeLevel  int    `json:"gradeLevel" example:"1"`
}

// SemesterData is the embedded semester of an article
type SemesterData struct {
	ID           int64  `json:"id" example:"1"`
	SemesterName string `json:"semesterName" example:"First Semester"`
	GradeLevel   int    `json:"gradeLevel" example:"1"`
}

// FileResponse is an article attachment
type FileResponse struct {
	ID           int64  `json:"id" example:"12"`
	FileName     string `json:"fileName" example:"worksheet.pdf"`
	FilePath     string `json:"filePath" example:"files/jordan/grade-1/worksheets/worksheet.pdf"`
	FileURL      string `json:"fileUrl" example:"http://localhost:8080/uploads/files/jordan/grade-1/worksheets/worksheet.pdf"`
	FileType     string `json:"fileType" example:"pdf"`
	FileCategory string `json:"fileCategory" example:"worksheets"`
	FileSize     int64  `json:"fileSize" example:"1048576"`
}

// ArticleResponse represents an article with its relations
type ArticleResponse struct {
	ID              int64          `json:"id" example:"7"`
	Connection      string         `json:"connection" example:"jo"`
	Title           string         `json:"title" example:"Intro"`
	Content         string         `json:"content" example:"<a href=\"/keywords/jo/math\">math</a> is fun"`
	MetaDescription string         `json:"metaDescription" example:"math is fun"`
	AuthorID        int64          `json:"authorId" example:"1"`
	VisitCount      int64          `json:"visitCount" example:"1"`
	Class           *ClassData     `json:"class,omitempty"`
	Subject         *SubjectData   `json:"subject,omitempty"`
	Semester        *SemesterData  `json:"semester,omitempty"`
	Keywords        []string       `json:"keywords"`
	Files           []FileResponse `json:"files"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ArticleListResponse is one page of articles
type ArticleListResponse struct {
	Articles   []ArticleResponse `json:"articles"`
	Pagination PaginationInfo    `json:"pagination"`
}

// KeywordArticlesResponse lists the articles tagged with a keyword
type KeywordArticlesResponse struct {
	Keyword    string            `json:"keyword" example:"math"`
	Articles   []ArticleResponse `json:"articles"`
	Pagination PaginationInfo    `json:"pagination"`
}

// ArticleOptionsResponse holds the choices of the authoring form
type ArticleOptionsResponse struct {
	Classes   []ClassData    `json:"classes"`
	Subjects  []SubjectData  `json:"subjects"`
	Semesters []SemesterData `json:"semesters"`
}

// NewClassData converts a school class
func NewClassData(c *models.SchoolClass) *ClassData {
	if c == nil {
		return nil
	}
	return &ClassData{ID: c.ID, GradeName: c.GradeName, GradeLevel: c.GradeLevel}
}

// NewSubjectData converts a subject
func NewSubjectData(s *models.Subject) *SubjectData {
	if s == nil {
		return nil
	}
	return &SubjectData{ID: s.ID, SubjectName: s.SubjectName, GradeLevel: s.GradeLevel}
}

// NewSemesterData converts a semester
func NewSemesterData(s *models.Semester) *SemesterData {
	if s == nil {
		return nil
	}
	return &SemesterData{ID: s.ID, SemesterName: s.SemesterName, GradeLevel: s.GradeLevel}
}

// FromArticle converts a models.Article. fileURL maps a stored path to its public URL.
func FromArticle(connection string, a *models.Article, fileURL func(string) string) ArticleResponse {
	resp := ArticleResponse{
		ID:              a.ID,
		Connection:      connection,
		Title:           a.Title,
		Content:         a.Content,
		MetaDescription: a.MetaDescription,
		AuthorID:        a.AuthorID,
		VisitCount:      a.VisitCount,
		Class:           NewClassData(a.Class),
		Subject:         NewSubjectData(a.Subject),
		Semester:        NewSemesterData(a.Semester),
		Keywords:        a.KeywordTexts(),
		Files:           make([]FileResponse, 0, len(a.Files)),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}

	for _, f := range a.Files {
		fr := FileResponse{
			ID:           f.ID,
			FileName:     f.FileName,
			FilePath:     f.FilePath,
			FileType:     f.FileType,
			FileCategory: f.FileCategory,
			FileSize:     f.FileSize,
		}
		if fileURL != nil {
			fr.FileURL = fileURL(f.FilePath)
		}
		resp.Files = append(resp.Files, fr)
	}
	return resp
}

// FromArticles converts a list
func FromArticles(connection string, articles []*models.Article, fileURL func(string) string) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, FromArticle(connection, a, fileURL))
	}
	return out
}
