// Package recommendation содержит доменную логику подбора рекомендаций:
// оценку схожести профилей и работу со списками рекомендаций.
package recommendation

import (
	"sort"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORING PHILOSOPHY
//
// Оценка схожести - чистая функция над двумя профилями:
// она не ходит в хранилище, не зависит от времени и при одинаковых
// входах всегда даёт одинаковый результат.
//
// Оценка складывается из взвешенных слагаемых:
// 1. Совпадение уровня подготовки (вес 1)
// 2. Совпадение основной цели (вес 2)
// 3. Пересечение видов тренировок по Жаккару (вес 2)
//
// Сумма делится на бюджет весов, поэтому итог всегда лежит в [0, 1].
// Неуказанный уровень или цель не совпадают ни с чем.
// ══════════════════════════════════════════════════════════════════════════════

// ══════════════════════════════════════════════════════════════════════════════
// SCORE
// ══════════════════════════════════════════════════════════════════════════════

// Score представляет оценку схожести двух профилей (0.0 - 1.0).
type Score float64

// IsValid проверяет корректность оценки.
func (s Score) IsValid() bool {
	return s >= 0 && s <= 1
}

// Float64 возвращает числовое значение оценки.
func (s Score) Float64() float64 {
	return float64(s)
}

// Quality возвращает качественную оценку схожести.
func (s Score) Quality() Quality {
	switch {
	case s >= 0.8:
		return QualityExcellent
	case s >= 0.6:
		return QualityGood
	case s >= 0.4:
		return QualityFair
	case s >= 0.2:
		return QualityPoor
	default:
		return QualityNone
	}
}

// Quality определяет качество совпадения.
type Quality string

const (
	// QualityExcellent - отличная схожесть (0.8 - 1.0).
	QualityExcellent Quality = "excellent"

	// QualityGood - хорошая схожесть (0.6 - 0.79).
	QualityGood Quality = "good"

	// QualityFair - удовлетворительная схожесть (0.4 - 0.59).
	QualityFair Quality = "fair"

	// QualityPoor - низкая схожесть (0.2 - 0.39).
	QualityPoor Quality = "poor"

	// QualityNone - почти нет схожести (0.0 - 0.19).
	QualityNone Quality = "none"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHTS
// ══════════════════════════════════════════════════════════════════════════════

// Weights задаёт веса слагаемых итоговой оценки.
type Weights struct {
	// FitnessLevel - вес совпадения уровня подготовки.
	FitnessLevel float64

	// PrimaryGoal - вес совпадения основной цели.
	PrimaryGoal float64

	// WorkoutOverlap - вес пересечения видов тренировок.
	WorkoutOverlap float64
}

// DefaultWeights возвращает веса по умолчанию.
func DefaultWeights() Weights {
	return Weights{
		FitnessLevel:   1.0,
		PrimaryGoal:    2.0,
		WorkoutOverlap: 2.0,
	}
}

// Budget возвращает сумму весов (нормировочный знаменатель).
func (w Weights) Budget() float64 {
	return w.FitnessLevel + w.PrimaryGoal + w.WorkoutOverlap
}

// Validate проверяет корректность весов.
func (w Weights) Validate() error {
	if w.FitnessLevel < 0 || w.PrimaryGoal < 0 || w.WorkoutOverlap < 0 {
		return shared.ErrInvalidWeights
	}
	if w.Budget() <= 0 {
		return shared.ErrInvalidWeights
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORING TERMS
// ══════════════════════════════════════════════════════════════════════════════

// Term представляет одно взвешенное слагаемое оценки.
// Compare возвращает долю совпадения в [0, 1], которая затем
// умножается на вес слагаемого.
type Term struct {
	// Name - имя слагаемого для расшифровки оценки.
	Name string

	// Weight - вес слагаемого.
	Weight float64

	// Compare - сравнение двух профилей по данному фактору.
	Compare func(a, b *user.Profile) float64
}

// Terms возвращает упорядоченный список слагаемых для данных весов.
func Terms(w Weights) []Term {
	return []Term{
		{
			Name:   "fitness_level",
			Weight: w.FitnessLevel,
			Compare: func(a, b *user.Profile) float64 {
				if a.FitnessLevel.Matches(b.FitnessLevel) {
					return 1
				}
				return 0
			},
		},
		{
			Name:   "primary_goal",
			Weight: w.PrimaryGoal,
			Compare: func(a, b *user.Profile) float64 {
				if a.PrimaryGoal.Matches(b.PrimaryGoal) {
					return 1
				}
				return 0
			},
		},
		{
			Name:   "workout_overlap",
			Weight: w.WorkoutOverlap,
			Compare: func(a, b *user.Profile) float64 {
				return a.WorkoutTypes().Jaccard(b.WorkoutTypes())
			},
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORER
// ══════════════════════════════════════════════════════════════════════════════

// Breakdown содержит вклад каждого слагаемого в итоговую оценку
// (уже после умножения на вес, до нормировки).
type Breakdown map[string]float64

// Scorer вычисляет оценку схожести двух профилей.
// Scorer неизменяем после создания и безопасен для конкурентного использования.
type Scorer struct {
	terms  []Term
	budget float64
}

// NewScorer создаёт Scorer с заданными весами.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{terms: Terms(w), budget: w.Budget()}, nil
}

// MustNewScorer создаёт Scorer с весами по умолчанию.
func MustNewScorer() *Scorer {
	s, err := NewScorer(DefaultWeights())
	if err != nil {
		panic(err)
	}
	return s
}

// Score вычисляет оценку схожести профилей a и b.
// Функция симметрична: Score(a, b) == Score(b, a).
func (s *Scorer) Score(a, b *user.Profile) Score {
	score, _ := s.ScoreWithBreakdown(a, b)
	return score
}

// ScoreWithBreakdown вычисляет оценку и возвращает вклад каждого слагаемого.
func (s *Scorer) ScoreWithBreakdown(a, b *user.Profile) (Score, Breakdown) {
	breakdown := make(Breakdown, len(s.terms))
	total := 0.0
	for _, term := range s.terms {
		contribution := term.Weight * term.Compare(a, b)
		breakdown[term.Name] = contribution
		total += contribution
	}
	return Score(total / s.budget), breakdown
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION LIST
// ══════════════════════════════════════════════════════════════════════════════

// Recommendation представляет одного кандидата с его оценкой схожести.
type Recommendation struct {
	// Profile - профиль кандидата.
	Profile *user.Profile

	// Score - оценка схожести с запрашивающим.
	Score Score

	// Breakdown - расшифровка оценки по слагаемым.
	Breakdown Breakdown
}

// List список рекомендаций с методами для работы.
type List []Recommendation

// Sort сортирует по убыванию оценки. При равных оценках
// порядок определяется по ID кандидата по возрастанию,
// чтобы результат был детерминированным.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Score != l[j].Score {
			return l[i].Score > l[j].Score
		}
		return l[i].Profile.ID < l[j].Profile.ID
	})
}

// TopN возвращает первые n рекомендаций.
func (l List) TopN(n int) List {
	if n <= 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// FilterByMinScore оставляет рекомендации с оценкой не ниже minScore.
func (l List) FilterByMinScore(minScore Score) List {
	filtered := make(List, 0, len(l))
	for _, r := range l {
		if r.Score >= minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
