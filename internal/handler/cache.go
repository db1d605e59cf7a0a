package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardvault/internal/models"
	"cardvault/internal/service"
)

// CacheHandler exposes cache administration: status and explicit clears.
type CacheHandler struct {
	Service     *service.CacheService
	PrintStatus *service.PrintStatusService
}

func (h *CacheHandler) Register(r *gin.Engine) {
	r.GET("/api/populate/status", h.status)
	r.DELETE("/api/cache/:game", h.clearCache)
	r.POST("/api/print-status/:game/refresh", h.refreshPrintStatus)
}

// @Summary Per-game cache population status
// @Tags cache
// @Param game query string false "limit to one game slug"
// @Success 200 {object} apiResponse
// @Router /api/populate/status [get]
func (h *CacheHandler) status(c *gin.Context) {
	var game *models.GameSlug
	if raw := strings.TrimSpace(c.Query("game")); raw != "" {
		parsed, err := models.ParseGameSlug(raw)
		if err != nil {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		game = &parsed
	}
	statuses, err := h.Service.Status(c.Request.Context(), game)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, statuses, nil)
}

// @Summary Clear cached sets and/or cards for a game
// @Tags cache
// @Param game path string true "game slug"
// @Param sets query bool false "clear cached sets (default true)"
// @Param cards query bool false "clear cached cards (default true)"
// @Success 200 {object} apiResponse
// @Router /api/cache/{game} [delete]
func (h *CacheHandler) clearCache(c *gin.Context) {
	game, ok := gameParam(c)
	if !ok {
		return
	}
	clearSets := boolQueryDefault(c, "sets", true)
	clearCards := boolQueryDefault(c, "cards", true)

	result, err := h.Service.ClearGameCache(c.Request.Context(), game, clearSets, clearCards)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, map[string]any{"game": game})
}

// @Summary Recompute print status for a game's cached sets
// @Tags cache
// @Param game path string true "game slug"
// @Success 200 {object} apiResponse
// @Router /api/print-status/{game}/refresh [post]
func (h *CacheHandler) refreshPrintStatus(c *gin.Context) {
	game, ok := gameParam(c)
	if !ok {
		return
	}
	result, err := h.PrintStatus.Refresh(c.Request.Context(), game)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}
