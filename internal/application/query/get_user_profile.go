package query

import (
	"context"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET USER PROFILE QUERY
// Возвращает публичный профиль участника вместе с последними тренировками
// и количеством связей.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserProfileQuery содержит параметры запроса профиля.
type GetUserProfileQuery struct {
	// UserID - ID запрашиваемого участника.
	UserID string
}

// Validate проверяет корректность параметров.
func (q *GetUserProfileQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user_id is required")
	}
	if _, err := shared.NewUserID(q.UserID); err != nil {
		return errors.New("user_id must be a valid user id")
	}
	return nil
}

// WorkoutDTO - краткая запись о тренировке.
type WorkoutDTO struct {
	ID              string    `json:"id"`
	Title           string    `json:"title,omitempty"`
	Type            string    `json:"type"`
	Intensity       string    `json:"intensity,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	PerformedAt     time.Time `json:"performed_at"`
}

// GetUserProfileResult содержит профиль участника.
type GetUserProfileResult struct {
	// User - публичный профиль.
	User UserDTO `json:"user"`

	// IsActive - активен ли аккаунт.
	IsActive bool `json:"is_active"`

	// ConnectionCount - количество установленных связей.
	ConnectionCount int `json:"connection_count"`

	// RecentWorkouts - последние тренировки от новых к старым.
	RecentWorkouts []WorkoutDTO `json:"recent_workouts"`

	// MemberSince - дата регистрации.
	MemberSince time.Time `json:"member_since"`
}

// GetUserProfileHandler обрабатывает запросы профиля.
type GetUserProfileHandler struct {
	users user.Repository
}

// NewGetUserProfileHandler создаёт новый обработчик.
func NewGetUserProfileHandler(users user.Repository) *GetUserProfileHandler {
	return &GetUserProfileHandler{users: users}
}

// Handle возвращает профиль участника.
func (h *GetUserProfileHandler) Handle(ctx context.Context, query GetUserProfileQuery) (*GetUserProfileResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("user", "GetUserProfile", shared.ErrValidation, err.Error(), err)
	}

	profile, err := h.users.GetByID(ctx, shared.UserID(query.UserID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("user", "GetUserProfile", shared.ErrDataStore, "failed to load profile", err)
	}

	result := &GetUserProfileResult{
		User:            newUserDTO(profile),
		IsActive:        profile.IsActive,
		ConnectionCount: len(profile.ConnectionIDs),
		RecentWorkouts:  make([]WorkoutDTO, 0, len(profile.RecentWorkouts)),
		MemberSince:     profile.CreatedAt,
	}
	for _, w := range profile.RecentWorkouts {
		result.RecentWorkouts = append(result.RecentWorkouts, WorkoutDTO{
			ID:              w.ID,
			Title:           w.Title,
			Type:            w.Type.String(),
			Intensity:       string(w.Intensity),
			DurationMinutes: w.DurationMinutes,
			PerformedAt:     w.PerformedAt,
		})
	}

	return result, nil
}
