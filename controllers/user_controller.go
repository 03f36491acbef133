package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MaximeWq/challenge-mobilite-app/services"
)

// UserController serves the admin-only user management routes; the admin
// gate itself lives in the middleware chain.
type UserController struct {
	Svc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Svc: svc}
}

func (h *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	users, pagination, err := h.Svc.List(c.Request.Context(), page, perPage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users, pagination)
}

type updateUserBody struct {
	Name    *string `json:"nom" binding:"omitempty,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	TeamID  *uint   `json:"equipe_id"`
	IsAdmin *bool   `json:"is_admin"`
}

func (h *UserController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "utilisateur introuvable")
		return
	}

	var body updateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := h.Svc.Update(c.Request.Context(), uint(id), services.UpdateUserInput{
		Name:    body.Name,
		Email:   body.Email,
		TeamID:  body.TeamID,
		IsAdmin: body.IsAdmin,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"utilisateur": user}, nil)
}

func (h *UserController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusNotFound, "utilisateur introuvable")
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": "utilisateur supprimé avec succès"}, nil)
}
