package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
)

// BindForm binds a form or multipart body into obj. Validator failures become a
// ValidationError carrying one message per field; anything else is a bad request.
func BindForm(c *gin.Context, obj any) error {
	err := c.ShouldBind(obj)
	if err == nil {
		return nil
	}

	if fields, ok := dto.ValidationFields(err); ok {
		verr := apperrors.NewValidationError()
		for field, msg := range fields {
			verr.Add(field, msg)
		}
		return verr
	}
	return apperrors.NewBadRequestError("Invalid request format: " + err.Error())
}
