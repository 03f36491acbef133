package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaximeWq/challenge-mobilite-app/services"
)

type StatsController struct {
	Svc   *services.StatsService
	clock services.Clock
}

func NewStatsController(svc *services.StatsService, clock services.Clock) *StatsController {
	return &StatsController{Svc: svc, clock: clock}
}

// General is the challenge-wide snapshot; the only public stats route.
func (h *StatsController) General(c *gin.Context) {
	stats, err := h.Svc.General(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats, nil)
}

// Teams is the team leaderboard, total distance descending.
func (h *StatsController) Teams(c *gin.Context) {
	teams, err := h.Svc.Teams(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, teams, gin.H{"total": len(teams)})
}

// Users is the top-10 user leaderboard.
func (h *StatsController) Users(c *gin.Context) {
	users, err := h.Svc.Leaderboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users, gin.H{"total": len(users)})
}

// Personal is the caller's own snapshot including their rankings.
func (h *StatsController) Personal(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}
	stats, err := h.Svc.Personal(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, stats, nil)
}

// Export streams the full activity table as a semicolon CSV attachment.
func (h *StatsController) Export(c *gin.Context) {
	content, err := h.Svc.ExportCSV(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("challenge_mobilite_%s.csv", h.clock.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=UTF-8", []byte(content))
}
