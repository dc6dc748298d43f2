package query

// ══════════════════════════════════════════════════════════════════════════════
// LIMITS
// Лимиты выборки для всех запросов подбора. Значения приходят из конфигурации
// сервиса, константы ниже служат запасными значениями.
// ══════════════════════════════════════════════════════════════════════════════

// Запасные значения лимитов.
const (
	DefaultConnectionLimit = 10
	MaxConnectionLimit     = 50
	DefaultBuddyLimit      = 5
	MaxBuddyLimit          = 20
	DefaultPotentialLimit  = 10
	MaxPotentialLimit      = 50
)

// Limits задаёт значения по умолчанию и верхние границы лимитов выборки.
// Нулевые поля заменяются запасными значениями при создании обработчика.
type Limits struct {
	// DefaultConnections, MaxConnections - лимиты подбора рекомендаций.
	DefaultConnections int
	MaxConnections     int

	// DefaultBuddies, MaxBuddies - лимиты поиска напарников.
	DefaultBuddies int
	MaxBuddies     int

	// DefaultPotential, MaxPotential - лимиты быстрого поиска похожих.
	DefaultPotential int
	MaxPotential     int
}

// DefaultLimits возвращает лимиты из запасных констант.
func DefaultLimits() Limits {
	return Limits{
		DefaultConnections: DefaultConnectionLimit,
		MaxConnections:     MaxConnectionLimit,
		DefaultBuddies:     DefaultBuddyLimit,
		MaxBuddies:         MaxBuddyLimit,
		DefaultPotential:   DefaultPotentialLimit,
		MaxPotential:       MaxPotentialLimit,
	}
}

// normalized подставляет запасные значения вместо нулевых полей.
func (l Limits) normalized() Limits {
	d := DefaultLimits()
	if l.DefaultConnections <= 0 {
		l.DefaultConnections = d.DefaultConnections
	}
	if l.MaxConnections <= 0 {
		l.MaxConnections = d.MaxConnections
	}
	if l.DefaultBuddies <= 0 {
		l.DefaultBuddies = d.DefaultBuddies
	}
	if l.MaxBuddies <= 0 {
		l.MaxBuddies = d.MaxBuddies
	}
	if l.DefaultPotential <= 0 {
		l.DefaultPotential = d.DefaultPotential
	}
	if l.MaxPotential <= 0 {
		l.MaxPotential = d.MaxPotential
	}
	return l
}

// Connections возвращает действующий лимит подбора рекомендаций.
func (l Limits) Connections(requested int) int {
	return clampLimit(requested, l.DefaultConnections, l.MaxConnections)
}

// Buddies возвращает действующий лимит поиска напарников.
func (l Limits) Buddies(requested int) int {
	return clampLimit(requested, l.DefaultBuddies, l.MaxBuddies)
}

// Potential возвращает действующий лимит быстрого поиска.
func (l Limits) Potential(requested int) int {
	return clampLimit(requested, l.DefaultPotential, l.MaxPotential)
}

// clampLimit применяет значение по умолчанию и верхнюю границу.
func clampLimit(requested, def, max int) int {
	if requested == 0 {
		return def
	}
	if requested > max {
		return max
	}
	return requested
}
