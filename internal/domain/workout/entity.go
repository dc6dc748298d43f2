// Package workout содержит доменную модель тренировки FitCircle.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package workout

import (
	"sort"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Type представляет вид тренировки.
type Type string

const (
	TypeStrength    Type = "strength"
	TypeCardio      Type = "cardio"
	TypeFlexibility Type = "flexibility"
	TypeHIIT        Type = "hiit"
	TypeYoga        Type = "yoga"
	TypeOther       Type = "other"
)

// AllTypes возвращает все допустимые виды тренировок.
func AllTypes() []Type {
	return []Type{TypeStrength, TypeCardio, TypeFlexibility, TypeHIIT, TypeYoga, TypeOther}
}

// IsValid проверяет корректность вида тренировки.
func (t Type) IsValid() bool {
	switch t {
	case TypeStrength, TypeCardio, TypeFlexibility, TypeHIIT, TypeYoga, TypeOther:
		return true
	}
	return false
}

// String возвращает строковое представление вида тренировки.
func (t Type) String() string {
	return string(t)
}

// Intensity представляет интенсивность тренировки.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// IsValid проверяет корректность интенсивности.
func (i Intensity) IsValid() bool {
	switch i {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// RecentHistoryLimit определяет, сколько последних тренировок участвует
// в подборе рекомендаций. Более старые тренировки не влияют на оценку схожести.
const RecentHistoryLimit = 10

// ══════════════════════════════════════════════════════════════════════════════
// SUMMARY
// ══════════════════════════════════════════════════════════════════════════════

// Summary представляет краткую запись о завершённой тренировке.
// Используется при подборе рекомендаций вместо полной записи тренировки.
type Summary struct {
	// ID - уникальный идентификатор тренировки (UUID)
	ID string

	// UserID - владелец тренировки
	UserID shared.UserID

	// Title - название тренировки ("Morning run")
	Title string

	// Type - вид тренировки
	Type Type

	// Intensity - интенсивность (опционально)
	Intensity Intensity

	// DurationMinutes - длительность в минутах
	DurationMinutes int

	// PerformedAt - когда тренировка была выполнена
	PerformedAt time.Time
}

// Validate проверяет корректность записи.
func (s Summary) Validate() error {
	if s.ID == "" {
		return shared.NewDomainError("workout", "Validate", shared.ErrEmptyValue, "workout ID is required")
	}
	if s.UserID.IsEmpty() {
		return shared.ErrInvalidUserID
	}
	if !s.Type.IsValid() {
		return shared.ErrInvalidWorkoutType
	}
	if s.DurationMinutes < 0 {
		return shared.ErrInvalidDuration
	}
	return nil
}

// CapRecent сортирует записи от новых к старым и оставляет не больше
// RecentHistoryLimit штук. Порядок при равном времени определяется по ID.
func CapRecent(summaries []Summary) []Summary {
	out := make([]Summary, len(summaries))
	copy(out, summaries)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PerformedAt.Equal(out[j].PerformedAt) {
			return out[i].PerformedAt.After(out[j].PerformedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > RecentHistoryLimit {
		out = out[:RecentHistoryLimit]
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// TYPE SET
// ══════════════════════════════════════════════════════════════════════════════

// TypeSet представляет множество видов тренировок без дубликатов.
type TypeSet map[Type]struct{}

// NewTypeSet собирает множество видов из списка записей.
func NewTypeSet(summaries []Summary) TypeSet {
	set := make(TypeSet, len(summaries))
	for _, s := range summaries {
		if s.Type.IsValid() {
			set[s.Type] = struct{}{}
		}
	}
	return set
}

// TypeSetOf собирает множество из явного списка видов.
func TypeSetOf(types ...Type) TypeSet {
	set := make(TypeSet, len(types))
	for _, t := range types {
		if t.IsValid() {
			set[t] = struct{}{}
		}
	}
	return set
}

// Contains проверяет наличие вида в множестве.
func (s TypeSet) Contains(t Type) bool {
	_, ok := s[t]
	return ok
}

// IsEmpty проверяет, пустое ли множество.
func (s TypeSet) IsEmpty() bool {
	return len(s) == 0
}

// Intersect возвращает количество общих видов с другим множеством.
func (s TypeSet) Intersect(other TypeSet) int {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	n := 0
	for t := range small {
		if large.Contains(t) {
			n++
		}
	}
	return n
}

// Jaccard вычисляет коэффициент Жаккара между двумя множествами:
// |пересечение| / |объединение|. Если оба множества пустые, возвращает 0.
func (s TypeSet) Jaccard(other TypeSet) float64 {
	inter := s.Intersect(other)
	union := len(s) + len(other) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Shared возвращает отсортированный список общих видов тренировок.
func (s TypeSet) Shared(other TypeSet) []Type {
	shared := make([]Type, 0)
	for t := range s {
		if other.Contains(t) {
			shared = append(shared, t)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i] < shared[j] })
	return shared
}

// Values возвращает отсортированный список видов.
func (s TypeSet) Values() []Type {
	values := make([]Type, 0, len(s))
	for t := range s {
		values = append(values, t)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}

// Strings возвращает отсортированный список видов строками (для DTO).
func (s TypeSet) Strings() []string {
	values := s.Values()
	out := make([]string, len(values))
	for i, t := range values {
		out[i] = string(t)
	}
	return out
}
