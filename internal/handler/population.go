package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cardvault/internal/models"
	"cardvault/internal/service"
)

// PopulationHandler exposes the ingestion pipeline: populate sets, populate
// one set's cards, and the full two-phase game run.
type PopulationHandler struct {
	Service *service.PopulationService
	Logger  *zap.Logger
}

func (h *PopulationHandler) Register(r *gin.Engine) {
	group := r.Group("/api/populate")
	group.POST("/:game/sets", h.populateSets)
	group.POST("/:game/sets/:setId/cards", h.populateSetCards)
	group.POST("/:game", h.populateGame)
}

// @Summary Populate all sets for a game
// @Tags populate
// @Param game path string true "game slug"
// @Param max_age_months query int false "only keep sets released within N months"
// @Success 200 {object} apiResponse
// @Router /api/populate/{game}/sets [post]
func (h *PopulationHandler) populateSets(c *gin.Context) {
	game, ok := gameParam(c)
	if !ok {
		return
	}
	maxAgeMonths := intQuery(c, "max_age_months", 0)

	result, err := h.Service.PopulateSets(c.Request.Context(), game, maxAgeMonths)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, result, map[string]any{"game": game})
}

// @Summary Populate cards for one set
// @Tags populate
// @Param game path string true "game slug"
// @Param setId path string true "provider-native set code"
// @Success 200 {object} apiResponse
// @Router /api/populate/{game}/sets/{setId}/cards [post]
func (h *PopulationHandler) populateSetCards(c *gin.Context) {
	game, ok := gameParam(c)
	if !ok {
		return
	}
	setID := c.Param("setId")

	result, err := h.Service.PopulateSetCards(c.Request.Context(), game, setID)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, result, map[string]any{"game": game, "set": setID})
}

// @Summary Populate everything for a game (sets then cards)
// @Tags populate
// @Param game path string true "game slug"
// @Param max_sets query int false "cap on sets to populate cards for"
// @Param max_age_months query int false "only keep sets released within N months"
// @Success 200 {object} apiResponse
// @Router /api/populate/{game} [post]
func (h *PopulationHandler) populateGame(c *gin.Context) {
	game, ok := gameParam(c)
	if !ok {
		return
	}
	maxSets := intQuery(c, "max_sets", 0)
	maxAgeMonths := intQuery(c, "max_age_months", 0)

	result, err := h.Service.PopulateGame(c.Request.Context(), game, maxSets, maxAgeMonths)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if h.Logger != nil && !result.Success {
		h.Logger.Warn("game population completed with errors",
			zap.String("game", game.String()),
			zap.Int("errors", len(result.Errors)),
		)
	}
	Ok(c, result, map[string]any{"game": game})
}

func gameParam(c *gin.Context) (models.GameSlug, bool) {
	game, err := models.ParseGameSlug(c.Param("game"))
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return "", false
	}
	return game, true
}
