package query

import (
	"context"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND POTENTIAL CONNECTIONS QUERY
// Быстрый поиск "таких же, как я": участники с тем же уровнем подготовки
// И той же целью тренировок. Оценка схожести не вычисляется - это дешёвая
// выборка прямо из хранилища.
// ══════════════════════════════════════════════════════════════════════════════

// FindPotentialConnectionsQuery содержит параметры поиска.
type FindPotentialConnectionsQuery struct {
	// RequesterID - ID участника, который ищет похожих.
	RequesterID string

	// Limit - максимальное количество результатов.
	// 0 означает значение по умолчанию из Limits обработчика.
	Limit int
}

// Validate проверяет корректность параметров.
func (q *FindPotentialConnectionsQuery) Validate() error {
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

// FindPotentialConnectionsResult содержит результат поиска.
type FindPotentialConnectionsResult struct {
	// Users - найденные участники в порядке возрастания ID.
	Users []UserDTO `json:"users"`

	// TotalFound - сколько участников найдено (после лимита).
	TotalFound int `json:"total_found"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`
}

// FindPotentialConnectionsHandler обрабатывает запросы быстрого поиска.
type FindPotentialConnectionsHandler struct {
	users  user.Repository
	limits Limits
}

// NewFindPotentialConnectionsHandler создаёт новый обработчик.
func NewFindPotentialConnectionsHandler(users user.Repository, limits Limits) *FindPotentialConnectionsHandler {
	return &FindPotentialConnectionsHandler{users: users, limits: limits.normalized()}
}

// Handle выполняет поиск похожих участников.
func (h *FindPotentialConnectionsHandler) Handle(ctx context.Context, query FindPotentialConnectionsQuery) (*FindPotentialConnectionsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("recommendation", "FindPotentialConnections", shared.ErrValidation, err.Error(), err)
	}

	requester, err := h.users.GetByID(ctx, shared.UserID(query.RequesterID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("recommendation", "FindPotentialConnections", shared.ErrDataStore, "failed to load requester", err)
	}

	result := &FindPotentialConnectionsResult{
		Users:       []UserDTO{},
		GeneratedAt: time.Now().UTC(),
	}

	// Фильтры строятся на равенстве: без уровня или цели совпадений не будет.
	if !requester.FitnessLevel.IsKnown() || !requester.PrimaryGoal.IsKnown() {
		return result, nil
	}

	found, err := h.users.FindCandidates(ctx, user.CandidateFilter{
		ExcludeIDs:   requester.ExclusionIDs(),
		FitnessLevel: requester.FitnessLevel,
		PrimaryGoal:  requester.PrimaryGoal,
		Limit:        h.limits.Potential(query.Limit),
	})
	if err != nil {
		return nil, shared.WrapError("recommendation", "FindPotentialConnections", shared.ErrDataStore, "failed to load candidates", err)
	}

	for _, p := range found {
		result.Users = append(result.Users, newUserDTO(p))
	}
	result.TotalFound = len(result.Users)

	return result, nil
}
