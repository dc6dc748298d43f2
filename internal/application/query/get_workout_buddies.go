package query

import (
	"context"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WORKOUT BUDDIES QUERY
// Ищет напарников для совместных тренировок. В отличие от общего подбора
// рекомендаций здесь действуют жёсткие фильтры вместо оценки схожести:
// тот же уровень подготовки и хотя бы один общий вид тренировок.
//
// Результат упорядочен по ID по возрастанию - выдача детерминированна
// и не зависит от порядка строк в хранилище.
// ══════════════════════════════════════════════════════════════════════════════

// GetWorkoutBuddiesQuery содержит параметры поиска напарников.
type GetWorkoutBuddiesQuery struct {
	// RequesterID - ID участника, который ищет напарников.
	RequesterID string

	// Limit - максимальное количество результатов.
	// 0 означает значение по умолчанию из Limits обработчика.
	Limit int
}

// Validate проверяет корректность параметров.
func (q *GetWorkoutBuddiesQuery) Validate() error {
	if q.RequesterID == "" {
		return errors.New("requester_id is required")
	}
	if _, err := shared.NewUserID(q.RequesterID); err != nil {
		return errors.New("requester_id must be a valid user id")
	}
	if q.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

// BuddyDTO - один найденный напарник.
type BuddyDTO struct {
	// User - публичный профиль напарника.
	User UserDTO `json:"user"`

	// SharedWorkoutTypes - общие виды тренировок с запрашивающим.
	SharedWorkoutTypes []string `json:"shared_workout_types"`
}

// GetWorkoutBuddiesResult содержит результат поиска напарников.
type GetWorkoutBuddiesResult struct {
	// Buddies - найденные напарники в порядке возрастания ID.
	Buddies []BuddyDTO `json:"buddies"`

	// TotalFound - сколько напарников найдено (после лимита).
	TotalFound int `json:"total_found"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`

	// Message - пояснение для пользователя, когда выдача пустая.
	Message string `json:"message,omitempty"`
}

// GetWorkoutBuddiesHandler обрабатывает запросы поиска напарников.
type GetWorkoutBuddiesHandler struct {
	users  user.Repository
	limits Limits
}

// NewGetWorkoutBuddiesHandler создаёт новый обработчик.
func NewGetWorkoutBuddiesHandler(users user.Repository, limits Limits) *GetWorkoutBuddiesHandler {
	return &GetWorkoutBuddiesHandler{users: users, limits: limits.normalized()}
}

// Handle выполняет поиск напарников.
func (h *GetWorkoutBuddiesHandler) Handle(ctx context.Context, query GetWorkoutBuddiesQuery) (*GetWorkoutBuddiesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("recommendation", "GetWorkoutBuddies", shared.ErrValidation, err.Error(), err)
	}

	requester, err := h.users.GetByID(ctx, shared.UserID(query.RequesterID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("recommendation", "GetWorkoutBuddies", shared.ErrDataStore, "failed to load requester", err)
	}

	requesterTypes := requester.WorkoutTypes()

	// Без указанного уровня или без истории тренировок жёсткие фильтры
	// не могут совпасть ни с кем.
	if !requester.FitnessLevel.IsKnown() || requesterTypes.IsEmpty() {
		return &GetWorkoutBuddiesResult{
			Buddies:     []BuddyDTO{},
			TotalFound:  0,
			GeneratedAt: time.Now().UTC(),
			Message:     "Set your fitness level and log at least one workout to find buddies.",
		}, nil
	}

	buddies, err := h.users.FindCandidates(ctx, user.CandidateFilter{
		ExcludeIDs:      requester.ExclusionIDs(),
		FitnessLevel:    requester.FitnessLevel,
		WorkoutTypesAny: requesterTypes.Values(),
		Limit:           h.limits.Buddies(query.Limit),
	})
	if err != nil {
		return nil, shared.WrapError("recommendation", "GetWorkoutBuddies", shared.ErrDataStore, "failed to load candidates", err)
	}

	result := &GetWorkoutBuddiesResult{
		Buddies:     make([]BuddyDTO, 0, len(buddies)),
		TotalFound:  len(buddies),
		GeneratedAt: time.Now().UTC(),
	}
	for _, b := range buddies {
		result.Buddies = append(result.Buddies, BuddyDTO{
			User:               newUserDTO(b),
			SharedWorkoutTypes: typesToStrings(requesterTypes.Shared(b.WorkoutTypes())),
		})
	}

	if len(result.Buddies) == 0 {
		result.Message = "No matching workout buddies yet. Check back later."
	}

	return result, nil
}
