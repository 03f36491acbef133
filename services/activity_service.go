package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

type ActivityService struct {
	db    *gorm.DB
	clock Clock
	feed  *FeedHub // optional, nil disables broadcasting
}

func NewActivityService(db *gorm.DB, clock Clock, feed *FeedHub) *ActivityService {
	return &ActivityService{db: db, clock: clock, feed: feed}
}

type CreateActivityInput struct {
	Date       time.Time
	Type       string
	DistanceKm *float64
	Steps      *int
}

// UpdateActivityInput carries partial-update semantics: only non-nil fields
// mutate the record.
type UpdateActivityInput struct {
	Type       *string
	DistanceKm *float64
	Steps      *int
}

type Pagination struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// List returns activities newest date first, with user and team preloaded.
func (s *ActivityService) List(ctx context.Context, page, perPage int) ([]models.Activity, *Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Activity{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var activities []models.Activity
	if err := s.db.WithContext(ctx).
		Preload("User").Preload("User.Team").
		Order("date DESC").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&activities).Error; err != nil {
		return nil, nil, err
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return activities, &Pagination{Total: total, Page: page, PerPage: perPage, LastPage: lastPage}, nil
}

// ListForUser returns one user's activities, newest date first. Restricted to
// the owner or an admin.
func (s *ActivityService) ListForUser(ctx context.Context, p Principal, userID uint) ([]models.Activity, error) {
	if !p.CanAccess(userID) {
		return nil, ErrAccessDenied
	}
	var activities []models.Activity
	err := s.db.WithContext(ctx).
		Preload("User").Preload("User.Team").
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&activities).Error
	return activities, err
}

// Create validates a declaration, normalizes its units and persists it.
// One activity per user per day; the date must not be in the future.
func (s *ActivityService) Create(ctx context.Context, p Principal, in CreateActivityInput) (*models.Activity, error) {
	date := DayStart(in.Date)
	today := DayStart(s.clock.Now())

	if date.After(today) {
		return nil, ErrFutureDate
	}

	var existing models.Activity
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", p.UserID, date).
		First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateDailyRecord
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	distance, steps, err := NormalizeActivity(in.Type, in.DistanceKm, in.Steps)
	if err != nil {
		return nil, err
	}

	activity := models.Activity{
		UserID:     p.UserID,
		Date:       date,
		Type:       in.Type,
		DistanceKm: distance,
		Steps:      steps,
	}
	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		// The (user_id, date) unique index closes the check-then-create race.
		return nil, err
	}

	out, err := s.reload(ctx, activity.ID)
	if err != nil {
		return nil, err
	}
	s.broadcast("activity.created", out)
	return out, nil
}

// Get loads one activity with its user and team. Owner or admin only.
func (s *ActivityService) Get(ctx context.Context, p Principal, id uint) (*models.Activity, error) {
	activity, err := s.reload(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanAccess(activity.UserID) {
		return nil, ErrAccessDenied
	}
	return activity, nil
}

// Update applies a partial update to an activity. Only allowed on the day the
// activity records, for admins too: the edit window is date-based, not
// role-based. A field that does not match the effective type is rejected
// rather than silently ignored.
func (s *ActivityService) Update(ctx context.Context, p Principal, id uint, in UpdateActivityInput) (*models.Activity, error) {
	var activity models.Activity
	if err := s.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !p.CanAccess(activity.UserID) {
		return nil, ErrAccessDenied
	}

	today := DayStart(s.clock.Now())
	if !DayStart(activity.Date).Equal(today) {
		return nil, ErrEditWindowExpired
	}

	typeChanged := false
	if in.Type != nil {
		if *in.Type != models.TypeVelo && *in.Type != models.TypeMarcheCourse {
			return nil, fmt.Errorf("%w: type d'activité inconnu %q", ErrValidation, *in.Type)
		}
		typeChanged = *in.Type != activity.Type
		activity.Type = *in.Type
	}

	switch activity.Type {
	case models.TypeVelo:
		if in.Steps != nil {
			return nil, fmt.Errorf("%w: pas non applicable au vélo", ErrValidation)
		}
		if in.DistanceKm != nil {
			distance, steps, err := NormalizeActivity(models.TypeVelo, in.DistanceKm, nil)
			if err != nil {
				return nil, err
			}
			activity.DistanceKm = distance
			activity.Steps = steps
		} else if typeChanged {
			return nil, fmt.Errorf("%w: distance_km requise pour le vélo", ErrValidation)
		}
	case models.TypeMarcheCourse:
		if in.DistanceKm != nil {
			return nil, fmt.Errorf("%w: distance_km non applicable à la marche/course", ErrValidation)
		}
		if in.Steps != nil {
			distance, steps, err := NormalizeActivity(models.TypeMarcheCourse, nil, in.Steps)
			if err != nil {
				return nil, err
			}
			activity.DistanceKm = distance
			activity.Steps = steps
		} else if typeChanged {
			return nil, fmt.Errorf("%w: pas requis pour la marche/course", ErrValidation)
		}
	}

	// map update so a cleared Steps pointer writes NULL
	if err := s.db.WithContext(ctx).Model(&activity).
		Updates(map[string]interface{}{
			"type":        activity.Type,
			"distance_km": activity.DistanceKm,
			"steps":       activity.Steps,
		}).Error; err != nil {
		return nil, err
	}

	out, err := s.reload(ctx, activity.ID)
	if err != nil {
		return nil, err
	}
	s.broadcast("activity.updated", out)
	return out, nil
}

// Delete removes an activity. Owner or admin, any day.
func (s *ActivityService) Delete(ctx context.Context, p Principal, id uint) error {
	var activity models.Activity
	if err := s.db.WithContext(ctx).First(&activity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !p.CanAccess(activity.UserID) {
		return ErrAccessDenied
	}
	// hard delete: a soft-deleted row would keep occupying the (user_id, date)
	// unique index and block re-declaring the day
	if err := s.db.WithContext(ctx).Unscoped().Delete(&activity).Error; err != nil {
		return err
	}
	s.broadcast("activity.deleted", &activity)
	return nil
}

func (s *ActivityService) reload(ctx context.Context, id uint) (*models.Activity, error) {
	var activity models.Activity
	err := s.db.WithContext(ctx).
		Preload("User").Preload("User.Team").
		First(&activity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (s *ActivityService) broadcast(kind string, activity *models.Activity) {
	if s.feed == nil {
		return
	}
	s.feed.Broadcast(map[string]any{
		"kind":     kind,
		"activite": activity,
	})
}
