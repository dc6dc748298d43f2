package user

import (
	"context"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// CandidateFilter описывает выборку кандидатов для рекомендаций.
// Пустые поля не участвуют в фильтрации.
type CandidateFilter struct {
	// ExcludeIDs - участники, которых нужно исключить из выборки
	// (сам запрашивающий и его связи).
	ExcludeIDs []shared.UserID

	// FitnessLevel - если указан, оставляет только участников с этим уровнем.
	FitnessLevel FitnessLevel

	// PrimaryGoal - если указана, оставляет только участников с этой целью.
	PrimaryGoal PrimaryGoal

	// WorkoutTypesAny - если не пустой, оставляет только участников,
	// у которых есть хотя бы одна недавняя тренировка одного из этих видов.
	WorkoutTypesAny []workout.Type

	// Limit - максимальное количество кандидатов (0 = без ограничения).
	Limit int
}

// Repository определяет операции чтения профилей участников.
type Repository interface {
	// GetByID возвращает профиль участника вместе с его связями
	// и последними тренировками.
	// Возвращает ErrUserNotFound, если участник не найден.
	GetByID(ctx context.Context, id shared.UserID) (*Profile, error)

	// GetByIDs возвращает профили по списку ID. Отсутствующие ID
	// молча пропускаются. Порядок результата - по ID по возрастанию.
	GetByIDs(ctx context.Context, ids []shared.UserID) ([]*Profile, error)

	// Exists проверяет, существует ли активный участник с данным ID.
	Exists(ctx context.Context, id shared.UserID) (bool, error)

	// FindCandidates возвращает активных участников, подходящих под фильтр.
	// Результат отсортирован по ID по возрастанию, чтобы выборка
	// была детерминированной.
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]*Profile, error)
}

// ConnectionRepository определяет операции над связями участников.
// Связь симметрична: если A связан с B, то B связан с A.
type ConnectionRepository interface {
	// Connect создаёт связь между двумя участниками.
	// Возвращает ErrConnectionExists, если связь уже установлена.
	Connect(ctx context.Context, a, b shared.UserID) error

	// Disconnect удаляет связь между двумя участниками.
	// Возвращает ErrConnectionNotFound, если связи нет.
	Disconnect(ctx context.Context, a, b shared.UserID) error

	// AreConnected проверяет, установлена ли связь.
	AreConnected(ctx context.Context, a, b shared.UserID) (bool, error)

	// ConnectionIDs возвращает ID всех связей участника по возрастанию.
	ConnectionIDs(ctx context.Context, id shared.UserID) ([]shared.UserID, error)
}
