package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtinth/auden/services"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type importQuestionsRequest struct {
	// TOML document with [[questions]] blocks.
	Toml string `json:"toml" binding:"required"`
}

func (h *QuizHandler) ImportQuestions(c *gin.Context) {
	var req importQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count, err := h.quizService.ImportQuestions(c.Param("id"), req.Toml)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Imported %d questions", count)})
}

func (h *QuizHandler) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.quizService.Questions(c.Param("id"))})
}

func (h *QuizHandler) ActivateQuestion(c *gin.Context) {
	if err := h.quizService.ActivateQuestion(c.Param("id"), c.Param("questionId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question activated"})
}

func (h *QuizHandler) RevealAnswer(c *gin.Context) {
	if err := h.quizService.RevealAnswer(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer revealed"})
}

func (h *QuizHandler) HideAnswer(c *gin.Context) {
	if err := h.quizService.HideAnswer(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer hidden"})
}

func (h *QuizHandler) GetCurrentQuestion(c *gin.Context) {
	current := h.quizService.CurrentQuestion(c.Param("id"))
	if current == nil {
		c.JSON(http.StatusOK, gin.H{"current_question": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_question": current})
}

type submitAnswerRequest struct {
	QuestionID string `json:"question_id" binding:"required"`
	AnswerID   string `json:"answer_id" binding:"required"`
}

func (h *QuizHandler) SubmitAnswer(c *gin.Context) {
	var req submitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.quizService.SubmitAnswer(c.Param("id"), c.GetString("uid"), req.QuestionID, req.AnswerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer submitted successfully"})
}

func (h *QuizHandler) GetMyAnswer(c *gin.Context) {
	questionID := c.Query("question_id")
	if questionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id is required"})
		return
	}
	answer := h.quizService.UserAnswer(c.Param("id"), c.GetString("uid"), questionID)
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (h *QuizHandler) GradeQuestion(c *gin.Context) {
	if err := h.quizService.GradeQuestion(c.Param("id"), c.Param("questionId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question graded"})
}

func (h *QuizHandler) GetLeaderboard(c *gin.Context) {
	screenID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"show_leaderboard": h.quizService.ShowLeaderboard(screenID),
		"leaderboard":      h.quizService.ComputeLeaderboard(screenID),
	})
}

type showLeaderboardRequest struct {
	Show *bool `json:"show" binding:"required"`
}

func (h *QuizHandler) SetShowLeaderboard(c *gin.Context) {
	var req showLeaderboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.quizService.SetShowLeaderboard(c.Param("id"), *req.Show); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leaderboard visibility updated"})
}
