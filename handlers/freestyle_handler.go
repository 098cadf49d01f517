package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtinth/auden/models"
	"github.com/dtinth/auden/services"
)

type FreestyleHandler struct {
	freestyleService *services.FreestyleService
}

func NewFreestyleHandler(freestyleService *services.FreestyleService) *FreestyleHandler {
	return &FreestyleHandler{freestyleService: freestyleService}
}

type displayModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

func (h *FreestyleHandler) SetDisplayMode(c *gin.Context) {
	var req displayModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.freestyleService.SetDisplayMode(c.Param("id"), req.Mode); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Display mode updated"})
}

type arbitraryContentRequest struct {
	Target string `json:"target" binding:"required"`
	HTML   string `json:"html"`
	CSS    string `json:"css"`
}

func (h *FreestyleHandler) SetArbitraryContent(c *gin.Context) {
	var req arbitraryContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.freestyleService.SetArbitraryContent(c.Param("id"), req.Target, models.ArbitraryContent{
		HTML: req.HTML,
		CSS:  req.CSS,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Content updated"})
}

type presentationSettingsRequest struct {
	ShowChat  *bool   `json:"show_chat"`
	ClassName *string `json:"class_name"`
}

func (h *FreestyleHandler) UpdatePresentationSettings(c *gin.Context) {
	var req presentationSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	screenID := c.Param("id")
	if req.ShowChat != nil {
		if err := h.freestyleService.SetShowChat(screenID, *req.ShowChat); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.ClassName != nil {
		if err := h.freestyleService.SetPresentationClassName(screenID, *req.ClassName); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, h.freestyleService.PresentationSettings(screenID))
}

type chatMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *FreestyleHandler) PostChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := h.freestyleService.PostChatMessage(c.Param("id"), c.GetString("uid"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

func (h *FreestyleHandler) GetChatMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.freestyleService.ChatMessages(c.Param("id"))})
}

type submitQuestionRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *FreestyleHandler) SubmitQuestion(c *gin.Context) {
	var req submitQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eventKey, err := h.freestyleService.SubmitQuestion(c.Param("id"), c.GetString("uid"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event_key": eventKey})
}

func (h *FreestyleHandler) GetQuestions(c *gin.Context) {
	questions := h.freestyleService.QuestionList(c.Param("id"), c.GetString("uid"), c.Query("sort"))
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type likeRequest struct {
	EventKey string `json:"event_key" binding:"required"`
	Liked    *bool  `json:"liked" binding:"required"`
}

func (h *FreestyleHandler) ToggleLike(c *gin.Context) {
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.freestyleService.ToggleLike(c.Param("id"), c.GetString("uid"), req.EventKey, *req.Liked)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Like updated"})
}
