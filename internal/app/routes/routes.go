package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tuhmaz/edu/internal/app/controllers"
	"github.com/tuhmaz/edu/internal/middleware"
	"github.com/tuhmaz/edu/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	articleController *controllers.ArticleController,
	keywordController *controllers.KeywordController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public keyword pages, the target of links inside article content
	router.GET("/keywords/:database/:keyword", keywordController.ListArticlesByKeyword)

	dashboard := router.Group("/dashboard")
	dashboard.Use(authMiddleware.JWTAuth(), middleware.Tenant())
	{
		dashboard.GET("/ws", wsHandler.HandleConnection)

		articles := dashboard.Group("/articles")
		{
			articles.GET("", articleController.ListArticles)
			articles.POST("", articleController.CreateArticle)
			articles.GET("/options", articleController.GetOptions)
			articles.GET("/class/:gradeLevel", articleController.ListByGrade)
			articles.GET("/:id", articleController.GetArticle)
			articles.PUT("/:id", articleController.UpdateArticle)
			articles.DELETE("/:id", articleController.DeleteArticle)
		}
	}
}
