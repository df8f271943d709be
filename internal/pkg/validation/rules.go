package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom binding tags
const (
	// TagNotBlank rejects strings made only of whitespace
	TagNotBlank = "notblank"
	// TagKeywordList checks every comma separated token against KeywordMaxLength.
	// Tokens may not contain '/', they become a single path segment of the keyword page.
	TagKeywordList = "keywordlist"
)

// KeywordMaxLength matches the keywords.keyword column
const KeywordMaxLength = 255

// Register installs the custom rules on v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagNotBlank, notBlank); err != nil {
		return err
	}
	return v.RegisterValidation(TagKeywordList, keywordList)
}

// RegisterWithGin installs the custom rules on gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not validator/v10")
	}
	return Register(v)
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.String {
		return strings.TrimSpace(field.String()) != ""
	}
	return !field.IsZero()
}

func keywordList(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	for _, token := range strings.Split(field.String(), ",") {
		token = strings.TrimSpace(token)
		if utf8.RuneCountInString(token) > KeywordMaxLength || strings.Contains(token, "/") {
			return false
		}
	}
	return true
}
