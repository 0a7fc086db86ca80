package routes

import (
	"net/http"

	"devflow/handlers"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	questionHandler *handlers.QuestionHandler,
	tagHandler *handlers.TagHandler,
	searchHandler *handlers.SearchHandler,
) {
	// API routes
	api := router.Group("/api")
	{
		// Question routes
		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.ListQuestions)
			questions.POST("", questionHandler.CreateQuestion)
			questions.GET("/hot", questionHandler.HotQuestions)
			questions.GET("/:id", questionHandler.GetQuestionByID)
			questions.PUT("/:id", questionHandler.EditQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
			questions.POST("/:id/upvote", questionHandler.UpvoteQuestion)
			questions.POST("/:id/downvote", questionHandler.DownvoteQuestion)
			questions.POST("/:id/view", questionHandler.ViewQuestion)
		}

		// Tag routes
		tags := api.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.GET("/popular", tagHandler.PopularTags)
			tags.GET("/:id/questions", tagHandler.QuestionsByTag)
		}

		// Global search
		api.GET("/search", searchHandler.GlobalSearch)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
