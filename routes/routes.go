package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dtinth/auden/handlers"
	"github.com/dtinth/auden/middleware"
	"github.com/dtinth/auden/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	screenHandler *handlers.ScreenHandler,
	voteHandler *handlers.VoteHandler,
	quizHandler *handlers.QuizHandler,
	freestyleHandler *handlers.FreestyleHandler,
	hub *services.Hub,
	authService *services.AuthService,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Signed-in routes: the audience surface.
		signedIn := api.Group("/")
		signedIn.Use(middleware.AuthMiddleware(jwtSecret))
		{
			signedIn.GET("/auth/profile", authHandler.GetProfile)
			signedIn.GET("/current-screen", screenHandler.GetCurrentScreen)
			signedIn.GET("/presence", screenHandler.GetPresence)

			screens := signedIn.Group("/screens/:id")
			{
				screens.GET("/vote", voteHandler.GetOptions)
				screens.POST("/vote/votes", voteHandler.CastVote)
				screens.GET("/vote/votes", voteHandler.GetMyVotes)
				screens.GET("/vote/results", voteHandler.GetResults)

				screens.GET("/quiz/current-question", quizHandler.GetCurrentQuestion)
				screens.POST("/quiz/answer", quizHandler.SubmitAnswer)
				screens.GET("/quiz/answer", quizHandler.GetMyAnswer)
				screens.GET("/quiz/leaderboard", quizHandler.GetLeaderboard)

				screens.GET("/freestyle/chat", freestyleHandler.GetChatMessages)
				screens.POST("/freestyle/chat", freestyleHandler.PostChatMessage)
				screens.GET("/freestyle/questions", freestyleHandler.GetQuestions)
				screens.POST("/freestyle/questions", freestyleHandler.SubmitQuestion)
				screens.PUT("/freestyle/likes", freestyleHandler.ToggleLike)
			}
		}

		// Admin routes: the backstage surface.
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtSecret), middleware.AdminMiddleware(authService))
		{
			admin.POST("/screens", screenHandler.CreateScreen)
			admin.GET("/screens", screenHandler.ListScreens)
			admin.PUT("/screens/:id/title", screenHandler.RenameScreen)
			admin.DELETE("/screens/:id", screenHandler.DeleteScreen)
			admin.PUT("/current-screen", screenHandler.SetCurrentScreen)
			admin.PUT("/admins/:uid", authHandler.SetAdmin)

			admin.POST("/screens/:id/vote/options", voteHandler.SetOptions)
			admin.PUT("/screens/:id/vote/settings", voteHandler.UpdateSettings)

			admin.POST("/screens/:id/quiz/import", quizHandler.ImportQuestions)
			admin.GET("/screens/:id/quiz/questions", quizHandler.GetQuestions)
			admin.POST("/screens/:id/quiz/questions/:questionId/activate", quizHandler.ActivateQuestion)
			admin.POST("/screens/:id/quiz/questions/:questionId/grade", quizHandler.GradeQuestion)
			admin.POST("/screens/:id/quiz/reveal", quizHandler.RevealAnswer)
			admin.POST("/screens/:id/quiz/hide", quizHandler.HideAnswer)
			admin.PUT("/screens/:id/quiz/leaderboard", quizHandler.SetShowLeaderboard)

			admin.PUT("/screens/:id/freestyle/display-mode", freestyleHandler.SetDisplayMode)
			admin.PUT("/screens/:id/freestyle/arbitrary", freestyleHandler.SetArbitraryContent)
			admin.PUT("/screens/:id/freestyle/presentation", freestyleHandler.UpdatePresentationSettings)
		}
	}

	// WebSocket endpoint for realtime tree subscriptions.
	router.GET("/ws", func(c *gin.Context) {
		token := c.Query("token")
		uid, name, err := middleware.ParseToken(token, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for user %s: %v", uid, err)
			return
		}

		hub.RegisterClient(conn, uid, name)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
