package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuhmaz/edu/internal/app/models/dto"
	"github.com/tuhmaz/edu/internal/app/services"
	"github.com/tuhmaz/edu/internal/middleware"
	"github.com/tuhmaz/edu/internal/pkg/apperrors"
	"github.com/tuhmaz/edu/internal/pkg/helpers"
	"github.com/tuhmaz/edu/internal/tenant"
)

// KeywordController serves the public keyword pages
type KeywordController struct {
	keywordService services.KeywordService
}

// NewKeywordController creates a new KeywordController
func NewKeywordController(keywordService services.KeywordService) *KeywordController {
	return &KeywordController{keywordService: keywordService}
}

// ListArticlesByKeyword lists the articles tagged with a keyword
// @Summary Articles by keyword
// @Description Target of the links inserted into article content. Lists the articles of the partition tagged with the keyword.
// @Tags keywords
// @Produce json
// @Param database path string true "Partition connection (jo, sa, eg, ps)"
// @Param keyword path string true "Keyword"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(25)
// @Success 200 {object} dto.APIResponse{data=dto.KeywordArticlesResponse} "Articles retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Keyword or database not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /keywords/{database}/{keyword} [get]
func (c *KeywordController) ListArticlesByKeyword(ctx *gin.Context) {
	conn, ok := tenant.ParseConnection(ctx.Param("database"))
	if !ok {
		middleware.HandleAPIError(ctx, fmt.Errorf("%w: %s", apperrors.ErrPartitionUnknown, ctx.Param("database")))
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.keywordService.ListArticlesByKeyword(ctx, conn, ctx.Param("keyword"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      resp,
		Timestamp: time.Now(),
	})
}
