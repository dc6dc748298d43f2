// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"

	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHARED DTO
// Общие DTO для запросов рекомендаций. Пароль и email наружу не отдаются.
// ══════════════════════════════════════════════════════════════════════════════

// UserDTO - публичное представление профиля участника.
type UserDTO struct {
	// ID - идентификатор участника.
	ID string `json:"id"`

	// Username - публичный никнейм.
	Username string `json:"username"`

	// FirstName, LastName - имя и фамилия.
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Bio - описание профиля.
	Bio string `json:"bio,omitempty"`

	// FitnessLevel - уровень подготовки (пусто = не указан).
	FitnessLevel string `json:"fitness_level,omitempty"`

	// PrimaryGoal - основная цель (пусто = не указана).
	PrimaryGoal string `json:"primary_goal,omitempty"`

	// RecentWorkoutTypes - виды тренировок из последней истории.
	RecentWorkoutTypes []string `json:"recent_workout_types"`
}

// newUserDTO собирает DTO из доменного профиля.
func newUserDTO(p *user.Profile) UserDTO {
	return UserDTO{
		ID:                 p.ID.String(),
		Username:           p.Username.String(),
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Bio:                p.Bio,
		FitnessLevel:       p.FitnessLevel.String(),
		PrimaryGoal:        p.PrimaryGoal.String(),
		RecentWorkoutTypes: p.WorkoutTypes().Strings(),
	}
}

// typesToStrings переводит список видов тренировок в строки для DTO.
func typesToStrings(types []workout.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULT CACHE
// Кэш готовых результатов. Реализация находится в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// ResultCache кэширует собранные результаты запросов.
// Обработчики переживают отсутствие кэша (nil) и его ошибки.
type ResultCache interface {
	// Get читает результат по ключу. Возвращает false, если записи нет.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set сохраняет результат по ключу.
	Set(ctx context.Context, key string, value any) error
}

// connectionsCacheKey собирает ключ кэша для запроса рекомендаций.
// Параметры запроса входят в ключ, чтобы разные выборки не пересекались.
func connectionsCacheKey(requesterID string, limit int, minScore float64) string {
	return fmt.Sprintf("%s:connections:%d:%.4f", requesterID, limit, minScore)
}
