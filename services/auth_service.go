package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MaximeWq/challenge-mobilite-app/models"
	"github.com/MaximeWq/challenge-mobilite-app/utils"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	TeamID   uint
}

// Register creates a participant on a team and returns the user with a
// signed token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, in.TeamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("%w: équipe inconnue", ErrValidation)
		}
		return nil, "", err
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, "", fmt.Errorf("%w: email déjà utilisé", ErrValidation)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		TeamID:   &in.TeamID,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", err
	}
	if err := s.db.WithContext(ctx).Preload("Team").First(&user, user.ID).Error; err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.Email)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks credentials and issues a token. The same error covers a
// missing user and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Team").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.Email)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// CurrentUser loads the authenticated user with their team.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Team").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
