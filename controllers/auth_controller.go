package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaximeWq/challenge-mobilite-app/services"
)

type AuthController struct {
	Svc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

type registerBody struct {
	Name     string `json:"nom" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	TeamID   uint   `json:"equipe_id" binding:"required"`
}

func (h *AuthController) Register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, token, err := h.Svc.Register(c.Request.Context(), services.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		TeamID:   body.TeamID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"utilisateur": user, "token": token}, nil)
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthController) Login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"utilisateur": user, "token": token}, nil)
}

// Me returns the authenticated user with their team.
func (h *AuthController) Me(c *gin.Context) {
	p, ok := principalFromCtx(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentification requise")
		return
	}
	user, err := h.Svc.CurrentUser(c.Request.Context(), p.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"utilisateur": user}, nil)
}

// Logout acknowledges the client dropping its token. Tokens are stateless,
// nothing is revoked server-side.
func (h *AuthController) Logout(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"message": "déconnexion réussie"}, nil)
}
