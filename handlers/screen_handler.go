package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtinth/auden/services"
)

type ScreenHandler struct {
	screenService   *services.ScreenService
	presenceService *services.PresenceService
}

func NewScreenHandler(screenService *services.ScreenService, presenceService *services.PresenceService) *ScreenHandler {
	return &ScreenHandler{
		screenService:   screenService,
		presenceService: presenceService,
	}
}

type createScreenRequest struct {
	Scene string `json:"scene" binding:"required"`
}

func (h *ScreenHandler) CreateScreen(c *gin.Context) {
	var req createScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.screenService.CreateScreen(req.Scene)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ScreenHandler) ListScreens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"screens": h.screenService.ListScreens()})
}

type renameScreenRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ScreenHandler) RenameScreen(c *gin.Context) {
	var req renameScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.screenService.RenameScreen(c.Param("id"), req.Title); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Screen renamed"})
}

func (h *ScreenHandler) DeleteScreen(c *gin.Context) {
	if err := h.screenService.DeleteScreen(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Screen deleted"})
}

type setCurrentScreenRequest struct {
	ScreenID string `json:"screen_id"`
}

func (h *ScreenHandler) SetCurrentScreen(c *gin.Context) {
	var req setCurrentScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.screenService.SetCurrentScreen(req.ScreenID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Current screen updated"})
}

// GetCurrentScreen resolves the pointer plus the pointed-at screen's info,
// degrading to info-less output when the scene type is unknown.
func (h *ScreenHandler) GetCurrentScreen(c *gin.Context) {
	id := h.screenService.CurrentScreen()
	if id == "" {
		c.JSON(http.StatusOK, gin.H{"screen_id": nil})
		return
	}
	info, err := h.screenService.ScreenInfo(id)
	response := gin.H{"screen_id": id, "info": info}
	if err != nil {
		response["error"] = err.Error()
	}
	c.JSON(http.StatusOK, response)
}

func (h *ScreenHandler) GetPresence(c *gin.Context) {
	users := h.presenceService.OnlineUsers()
	c.JSON(http.StatusOK, gin.H{"online": len(users), "users": users})
}
