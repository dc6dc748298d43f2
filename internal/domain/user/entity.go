// Package user содержит доменную модель участника FitCircle.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// FitnessLevel представляет уровень подготовки участника.
// Пустое значение означает, что уровень не указан в профиле.
type FitnessLevel string

const (
	LevelUnknown      FitnessLevel = ""
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// IsValid проверяет корректность уровня. Пустое значение допустимо.
func (l FitnessLevel) IsValid() bool {
	switch l {
	case LevelUnknown, LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// IsKnown проверяет, указан ли уровень в профиле.
func (l FitnessLevel) IsKnown() bool {
	return l != LevelUnknown
}

// Matches проверяет совпадение уровней. Неуказанный уровень
// не совпадает ни с чем, включая другой неуказанный уровень.
func (l FitnessLevel) Matches(other FitnessLevel) bool {
	return l.IsKnown() && l == other
}

// String возвращает строковое представление уровня.
func (l FitnessLevel) String() string {
	return string(l)
}

// PrimaryGoal представляет основную цель тренировок участника.
// Пустое значение означает, что цель не указана в профиле.
type PrimaryGoal string

const (
	GoalUnknown     PrimaryGoal = ""
	GoalStrength    PrimaryGoal = "strength"
	GoalWeightLoss  PrimaryGoal = "weight-loss"
	GoalEndurance   PrimaryGoal = "endurance"
	GoalFlexibility PrimaryGoal = "flexibility"
	GoalGeneral     PrimaryGoal = "general"
)

// IsValid проверяет корректность цели. Пустое значение допустимо.
func (g PrimaryGoal) IsValid() bool {
	switch g {
	case GoalUnknown, GoalStrength, GoalWeightLoss, GoalEndurance, GoalFlexibility, GoalGeneral:
		return true
	}
	return false
}

// IsKnown проверяет, указана ли цель в профиле.
func (g PrimaryGoal) IsKnown() bool {
	return g != GoalUnknown
}

// Matches проверяет совпадение целей. Неуказанная цель
// не совпадает ни с чем, включая другую неуказанную цель.
func (g PrimaryGoal) Matches(other PrimaryGoal) bool {
	return g.IsKnown() && g == other
}

// String возвращает строковое представление цели.
func (g PrimaryGoal) String() string {
	return string(g)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// Profile представляет профиль участника вместе с данными,
// которые нужны для подбора рекомендаций: последние тренировки
// и список уже установленных связей.
type Profile struct {
	// ID - уникальный идентификатор участника
	ID shared.UserID

	// Username - публичный никнейм
	Username shared.Username

	// Email - адрес электронной почты
	Email shared.Email

	// PasswordHash - bcrypt-хеш пароля (никогда не отдаётся наружу)
	PasswordHash string

	// FirstName, LastName - имя и фамилия
	FirstName string
	LastName  string

	// Bio - короткое описание профиля
	Bio string

	// FitnessLevel - уровень подготовки (может быть не указан)
	FitnessLevel FitnessLevel

	// PrimaryGoal - основная цель тренировок (может быть не указана)
	PrimaryGoal PrimaryGoal

	// IsActive - активен ли аккаунт
	IsActive bool

	// LastLoginAt - время последнего входа
	LastLoginAt *time.Time

	// ConnectionIDs - идентификаторы участников, с которыми уже установлена связь
	ConnectionIDs []shared.UserID

	// RecentWorkouts - последние тренировки (не больше workout.RecentHistoryLimit)
	RecentWorkouts []workout.Summary

	// CreatedAt, UpdatedAt - временные метки записи
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты профиля.
func (p *Profile) Validate() error {
	if !p.ID.IsValid() {
		return shared.ErrInvalidUserID
	}
	if !p.Username.IsValid() {
		return shared.ErrInvalidUsername
	}
	if !p.Email.IsValid() {
		return shared.ErrInvalidEmail
	}
	if !p.FitnessLevel.IsValid() {
		return shared.NewDomainError("user", "Validate", shared.ErrInvalidInput, "invalid fitness level")
	}
	if !p.PrimaryGoal.IsValid() {
		return shared.NewDomainError("user", "Validate", shared.ErrInvalidInput, "invalid primary goal")
	}
	if len(p.RecentWorkouts) > workout.RecentHistoryLimit {
		return shared.NewDomainError("user", "Validate", shared.ErrValueOutOfRange, "too many recent workouts")
	}
	return nil
}

// FullName возвращает полное имя участника.
func (p *Profile) FullName() string {
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.Username.String()
	}
}

// IsConnectedTo проверяет, установлена ли связь с участником id.
func (p *Profile) IsConnectedTo(id shared.UserID) bool {
	for _, c := range p.ConnectionIDs {
		if c == id {
			return true
		}
	}
	return false
}

// ExclusionIDs возвращает идентификаторы, которые нужно исключить
// из пула кандидатов: сам участник и все его связи.
func (p *Profile) ExclusionIDs() []shared.UserID {
	out := make([]shared.UserID, 0, len(p.ConnectionIDs)+1)
	out = append(out, p.ID)
	out = append(out, p.ConnectionIDs...)
	return out
}

// WorkoutTypes возвращает множество видов тренировок из последней истории.
func (p *Profile) WorkoutTypes() workout.TypeSet {
	return workout.NewTypeSet(p.RecentWorkouts)
}

// HasWorkoutHistory проверяет, есть ли у участника хотя бы одна тренировка.
func (p *Profile) HasWorkoutHistory() bool {
	return len(p.RecentWorkouts) > 0
}

// SetRecentWorkouts записывает историю тренировок, обрезая её
// до последних workout.RecentHistoryLimit записей.
func (p *Profile) SetRecentWorkouts(summaries []workout.Summary) {
	p.RecentWorkouts = workout.CapRecent(summaries)
}
