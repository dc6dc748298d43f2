package query

import (
	"context"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/recommendation"
	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RECOMMENDED CONNECTIONS QUERY
// Подбирает участников, похожих на запрашивающего: по уровню подготовки,
// цели тренировок и пересечению видов тренировок. Это КЛЮЧЕВОЙ запрос
// сервиса - он превращает базу профилей в живое сообщество.
//
// Уже установленные связи и сам запрашивающий в выдачу не попадают.
// ══════════════════════════════════════════════════════════════════════════════

// GetRecommendedConnectionsQuery содержит параметры подбора рекомендаций.
type GetRecommendedConnectionsQuery struct {
	// RequesterID - ID участника, для которого подбираются рекомендации.
	RequesterID string

	// Limit - максимальное количество результатов.
	// 0 означает значение по умолчанию из Limits обработчика.
	Limit int

	// MinScore - минимальная оценка схожести (0.0 - 1.0).
	// Кандидаты с меньшей оценкой отсекаются.
	MinScore float64
}

// Validate проверяет корректность параметров.
func (q *GetRecommendedConnectionsQuery) Validate() error {
	if q.RequesterID == "" {
		return errors.New("requester_id is required")
	}
	if _, err := shared.NewUserID(q.RequesterID); err != nil {
		return errors.New("requester_id must be a valid user id")
	}
	if q.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	if q.MinScore < 0 || q.MinScore > 1 {
		return errors.New("min_score must be between 0 and 1")
	}
	return nil
}

// RecommendationDTO - один кандидат с оценкой схожести.
type RecommendationDTO struct {
	// User - публичный профиль кандидата.
	User UserDTO `json:"user"`

	// SimilarityScore - оценка схожести (0.0 - 1.0).
	SimilarityScore float64 `json:"similarity_score"`

	// MatchQuality - качественная оценка: "excellent", "good", "fair", "poor", "none".
	MatchQuality string `json:"match_quality"`

	// ScoreBreakdown - вклад каждого слагаемого в оценку.
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}

// ConnectionsSearchCriteria - использованные критерии выборки.
type ConnectionsSearchCriteria struct {
	Limit    int     `json:"limit"`
	MinScore float64 `json:"min_score"`
}

// GetRecommendedConnectionsResult содержит результат подбора.
type GetRecommendedConnectionsResult struct {
	// Recommendations - кандидаты, отсортированные по убыванию оценки.
	Recommendations []RecommendationDTO `json:"recommendations"`

	// TotalCandidates - размер пула кандидатов до отсечения по оценке.
	TotalCandidates int `json:"total_candidates"`

	// TotalMatched - сколько кандидатов прошло порог (до применения лимита).
	TotalMatched int `json:"total_matched"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generated_at"`

	// SearchCriteria - использованные критерии выборки.
	SearchCriteria ConnectionsSearchCriteria `json:"search_criteria"`
}

// GetRecommendedConnectionsHandler обрабатывает запросы подбора рекомендаций.
type GetRecommendedConnectionsHandler struct {
	users  user.Repository
	scorer *recommendation.Scorer
	cache  ResultCache
	limits Limits

	// includeBreakdown управляет выдачей расшифровки оценки в DTO.
	includeBreakdown bool
}

// NewGetRecommendedConnectionsHandler создаёт новый обработчик.
// cache может быть nil - тогда результаты не кэшируются.
func NewGetRecommendedConnectionsHandler(
	users user.Repository,
	scorer *recommendation.Scorer,
	cache ResultCache,
	includeBreakdown bool,
	limits Limits,
) *GetRecommendedConnectionsHandler {
	return &GetRecommendedConnectionsHandler{
		users:            users,
		scorer:           scorer,
		cache:            cache,
		limits:           limits.normalized(),
		includeBreakdown: includeBreakdown,
	}
}

// Handle выполняет подбор рекомендаций.
func (h *GetRecommendedConnectionsHandler) Handle(ctx context.Context, query GetRecommendedConnectionsQuery) (*GetRecommendedConnectionsResult, error) {
	// Валидация
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("recommendation", "GetRecommendedConnections", shared.ErrValidation, err.Error(), err)
	}

	limit := h.limits.Connections(query.Limit)

	// Кэш: при попадании отдаём готовый результат
	cacheKey := connectionsCacheKey(query.RequesterID, limit, query.MinScore)
	if h.cache != nil {
		var cached GetRecommendedConnectionsResult
		if ok, err := h.cache.Get(ctx, cacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	// Профиль запрашивающего: его связи определяют пул исключений
	requester, err := h.users.GetByID(ctx, shared.UserID(query.RequesterID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("recommendation", "GetRecommendedConnections", shared.ErrDataStore, "failed to load requester", err)
	}

	// Пул кандидатов: все активные участники, кроме запрашивающего и его связей
	candidates, err := h.users.FindCandidates(ctx, user.CandidateFilter{
		ExcludeIDs: requester.ExclusionIDs(),
	})
	if err != nil {
		return nil, shared.WrapError("recommendation", "GetRecommendedConnections", shared.ErrDataStore, "failed to load candidates", err)
	}

	// Оцениваем каждого кандидата
	scored := make(recommendation.List, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == requester.ID {
			continue
		}
		score, breakdown := h.scorer.ScoreWithBreakdown(requester, c)
		scored = append(scored, recommendation.Recommendation{
			Profile:   c,
			Score:     score,
			Breakdown: breakdown,
		})
	}

	// Порог, сортировка, лимит
	matched := scored.FilterByMinScore(recommendation.Score(query.MinScore))
	matched.Sort()
	totalMatched := len(matched)
	top := matched.TopN(limit)

	result := &GetRecommendedConnectionsResult{
		Recommendations: make([]RecommendationDTO, 0, len(top)),
		TotalCandidates: len(scored),
		TotalMatched:    totalMatched,
		GeneratedAt:     time.Now().UTC(),
		SearchCriteria: ConnectionsSearchCriteria{
			Limit:    limit,
			MinScore: query.MinScore,
		},
	}
	for _, r := range top {
		dto := RecommendationDTO{
			User:            newUserDTO(r.Profile),
			SimilarityScore: r.Score.Float64(),
			MatchQuality:    string(r.Score.Quality()),
		}
		if h.includeBreakdown {
			dto.ScoreBreakdown = r.Breakdown
		}
		result.Recommendations = append(result.Recommendations, dto)
	}

	// Кэшируем готовый результат, ошибки кэша не влияют на ответ
	if h.cache != nil {
		_ = h.cache.Set(ctx, cacheKey, result)
	}

	return result, nil
}
