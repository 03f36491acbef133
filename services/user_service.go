package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

// UserService covers the admin-only user management routes.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) List(ctx context.Context, page, perPage int) ([]models.User, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).
		Preload("Team").
		Order("id").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&users).Error; err != nil {
		return nil, nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return users, &Pagination{Total: total, Page: page, PerPage: perPage, LastPage: lastPage}, nil
}

type UpdateUserInput struct {
	Name    *string
	Email   *string
	TeamID  *uint
	IsAdmin *bool
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.TeamID != nil {
		var team models.Team
		if err := s.db.WithContext(ctx).First(&team, *in.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: équipe inconnue", ErrValidation)
			}
			return nil, err
		}
		user.TeamID = in.TeamID
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("Team").First(&user, user.ID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user and their activities. The last remaining
// administrator can never be deleted, so the management routes always stay
// reachable.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if user.IsAdmin {
		var admins int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("is_admin = ?", true).
			Count(&admins).Error; err != nil {
			return err
		}
		if admins <= 1 {
			return ErrLastAdminDeletion
		}
	}

	// hard delete both: soft-deleted rows would keep holding the email and
	// (user_id, date) unique indexes
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&user).Error
	})
}
