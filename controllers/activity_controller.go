package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MaximeWq/challenge-mobilite-app/services"
)

type ActivityController struct {
	Svc *services.ActivityService
}

func NewActivityController(svc *services.ActivityService) *ActivityController {
	return &ActivityController{Svc: svc}
}

// List returns all activities, paginated, newest date first.
func (h *ActivityController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	activities, pagination, err := h.Svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, activities, pagination)
}

// ListForUser returns one user's activities; owner or admin only.
func (h *ActivityController) ListForUser(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "utilisateur introuvable")
		return
	}

	activities, err := h.Svc.ListForUser(c.Request.Context(), p, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, activities, nil)
}

type createActivityBody struct {
	Date       string   `json:"date" binding:"required"`
	Type       string   `json:"type" binding:"required,oneof=velo marche_course"`
	DistanceKm *float64 `json:"distance_km"`
	Steps      *int     `json:"pas"`
}

// Create declares today's (or a past day's) activity for the caller.
func (h *ActivityController) Create(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}

	var body createActivityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	date, err := time.ParseInLocation("2006-01-02", body.Date, time.Local)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "date invalide, format attendu AAAA-MM-JJ")
		return
	}

	activity, err := h.Svc.Create(c.Request.Context(), p, services.CreateActivityInput{
		Date:       date,
		Type:       body.Type,
		DistanceKm: body.DistanceKm,
		Steps:      body.Steps,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"activite": activity}, nil)
}

// Show returns a single activity; owner or admin only.
func (h *ActivityController) Show(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "activité introuvable")
		return
	}

	activity, err := h.Svc.Get(c.Request.Context(), p, uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"activite": activity}, nil)
}

type updateActivityBody struct {
	Type       *string  `json:"type" binding:"omitempty,oneof=velo marche_course"`
	DistanceKm *float64 `json:"distance_km"`
	Steps      *int     `json:"pas"`
}

// Update mutates an activity, only on the day it records.
func (h *ActivityController) Update(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "activité introuvable")
		return
	}

	var body updateActivityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	activity, err := h.Svc.Update(c.Request.Context(), p, uint(id), services.UpdateActivityInput{
		Type:       body.Type,
		DistanceKm: body.DistanceKm,
		Steps:      body.Steps,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"activite": activity}, nil)
}

// Delete removes an activity; owner or admin, any day.
func (h *ActivityController) Delete(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "activité introuvable")
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), p, uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "activité supprimée avec succès"}, nil)
}
