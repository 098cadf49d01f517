package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtinth/auden/services"
)

type VoteHandler struct {
	voteService *services.VoteService
}

func NewVoteHandler(voteService *services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

type setOptionsRequest struct {
	// Slash-separated option labels, e.g. "JavaScript/TypeScript/Go".
	Text string `json:"text"`
}

func (h *VoteHandler) SetOptions(c *gin.Context) {
	var req setOptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.voteService.SetOptions(c.Param("id"), req.Text); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote options has been set"})
}

type voteSettingsRequest struct {
	MaxVotes    *int  `json:"max_votes"`
	Enabled     *bool `json:"enabled"`
	ShowResults *bool `json:"show_results"`
}

func (h *VoteHandler) UpdateSettings(c *gin.Context) {
	var req voteSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	screenID := c.Param("id")
	if req.MaxVotes != nil {
		if err := h.voteService.SetMaxVotes(screenID, *req.MaxVotes); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Enabled != nil {
		if err := h.voteService.SetEnabled(screenID, *req.Enabled); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.ShowResults != nil {
		if err := h.voteService.SetShowResults(screenID, *req.ShowResults); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, h.voteService.Settings(screenID))
}

func (h *VoteHandler) GetOptions(c *gin.Context) {
	screenID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"options":  h.voteService.Options(screenID),
		"settings": h.voteService.Settings(screenID),
	})
}

type castVoteRequest struct {
	OptionID string `json:"option_id" binding:"required"`
	Selected *bool  `json:"selected" binding:"required"`
}

func (h *VoteHandler) CastVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := c.GetString("uid")
	if err := h.voteService.CastVote(c.Param("id"), uid, req.OptionID, *req.Selected); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"votes": h.voteService.UserVotes(c.Param("id"), uid)})
}

func (h *VoteHandler) GetMyVotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"votes": h.voteService.UserVotes(c.Param("id"), c.GetString("uid"))})
}

func (h *VoteHandler) GetResults(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.voteService.ComputeResults(c.Param("id"))})
}
