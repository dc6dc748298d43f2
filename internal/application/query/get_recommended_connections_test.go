package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-backend/internal/domain/recommendation"
	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

func uid(n byte) shared.UserID {
	return shared.UserID("6f1c8a52-0000-4000-8000-00000000000" + string('0'+n))
}

func testProfile(id shared.UserID, level user.FitnessLevel, goal user.PrimaryGoal, types ...workout.Type) *user.Profile {
	p := &user.Profile{
		ID:           id,
		Username:     shared.Username("user_" + string(id[len(id)-1])),
		Email:        shared.Email("u" + string(id[len(id)-1]) + "@example.com"),
		FitnessLevel: level,
		PrimaryGoal:  goal,
		IsActive:     true,
	}
	for i, typ := range types {
		p.RecentWorkouts = append(p.RecentWorkouts, workout.Summary{
			ID:   string(rune('a' + i)),
			Type: typ,
		})
	}
	return p
}

func newConnectionsHandler(repo *fakeUserRepo, cache ResultCache) *GetRecommendedConnectionsHandler {
	return NewGetRecommendedConnectionsHandler(repo, recommendation.MustNewScorer(), cache, true, DefaultLimits())
}

func TestGetRecommendedConnections(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga)

	// Identical profile: score 1.0.
	twin := testProfile(uid(2), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga)
	// Same level, shared cardio: score 0.4.
	similar := testProfile(uid(3), user.LevelBeginner, user.GoalWeightLoss, workout.TypeCardio)
	// Nothing in common: score 0.
	stranger := testProfile(uid(4), user.LevelAdvanced, user.GoalStrength, workout.TypeStrength)

	repo := newFakeUserRepo(requester, twin, similar, stranger)
	handler := newConnectionsHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
		MinScore:    0.3,
	})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, twin.ID.String(), result.Recommendations[0].User.ID)
	assert.InDelta(t, 1.0, result.Recommendations[0].SimilarityScore, 1e-9)
	assert.Equal(t, similar.ID.String(), result.Recommendations[1].User.ID)
	assert.InDelta(t, 0.4, result.Recommendations[1].SimilarityScore, 1e-9)

	assert.Equal(t, 3, result.TotalCandidates)
	assert.Equal(t, 2, result.TotalMatched)
	assert.Equal(t, DefaultConnectionLimit, result.SearchCriteria.Limit)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestGetRecommendedConnectionsExcludesConnections(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	connected := testProfile(uid(2), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	free := testProfile(uid(3), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	requester.ConnectionIDs = []shared.UserID{connected.ID}

	repo := newFakeUserRepo(requester, connected, free)
	handler := newConnectionsHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, free.ID.String(), result.Recommendations[0].User.ID)
}

func TestGetRecommendedConnectionsTieBreakByID(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral)
	// Both candidates score identically (same level, same goal, no workouts).
	b := testProfile(uid(3), user.LevelBeginner, user.GoalGeneral)
	a := testProfile(uid(2), user.LevelBeginner, user.GoalGeneral)

	repo := newFakeUserRepo(requester, b, a)
	handler := newConnectionsHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
		MinScore:    0.3,
	})
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, a.ID.String(), result.Recommendations[0].User.ID)
	assert.Equal(t, b.ID.String(), result.Recommendations[1].User.ID)
}

func TestGetRecommendedConnectionsLimit(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral)
	profiles := []*user.Profile{requester}
	for i := byte(2); i <= 5; i++ {
		profiles = append(profiles, testProfile(uid(i), user.LevelBeginner, user.GoalGeneral))
	}

	repo := newFakeUserRepo(profiles...)
	handler := newConnectionsHandler(repo, nil)

	result, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
		Limit:       2,
	})
	require.NoError(t, err)

	assert.Len(t, result.Recommendations, 2)
	assert.Equal(t, 4, result.TotalMatched)
}

func TestGetRecommendedConnectionsValidation(t *testing.T) {
	handler := newConnectionsHandler(newFakeUserRepo(), nil)

	t.Run("missing requester", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
			RequesterID: uid(1).String(),
			Limit:       -1,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("min score out of range", func(t *testing.T) {
		_, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
			RequesterID: uid(1).String(),
			MinScore:    1.5,
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestGetRecommendedConnectionsRequesterNotFound(t *testing.T) {
	handler := newConnectionsHandler(newFakeUserRepo(), nil)

	_, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: uid(1).String(),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetRecommendedConnectionsEmptyPool(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral)
	handler := newConnectionsHandler(newFakeUserRepo(requester), nil)

	result, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Zero(t, result.TotalCandidates)
}

func TestGetRecommendedConnectionsDeterminism(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	profiles := []*user.Profile{requester}
	for i := byte(2); i <= 7; i++ {
		profiles = append(profiles, testProfile(uid(i), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio))
	}
	handler := newConnectionsHandler(newFakeUserRepo(profiles...), nil)

	query := GetRecommendedConnectionsQuery{RequesterID: requester.ID.String(), MinScore: 0.3}

	first, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	second, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{RequesterID: requester.ID.String(), MinScore: 0.3})
	require.NoError(t, err)

	require.Equal(t, len(first.Recommendations), len(second.Recommendations))
	for i := range first.Recommendations {
		assert.Equal(t, first.Recommendations[i].User.ID, second.Recommendations[i].User.ID)
		assert.Equal(t, first.Recommendations[i].SimilarityScore, second.Recommendations[i].SimilarityScore)
	}
}

func TestGetRecommendedConnectionsUsesCache(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	other := testProfile(uid(2), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)

	cache := newFakeResultCache()
	handler := newConnectionsHandler(newFakeUserRepo(requester, other), cache)

	query := GetRecommendedConnectionsQuery{RequesterID: requester.ID.String(), MinScore: 0.3}

	first, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{RequesterID: requester.ID.String(), MinScore: 0.3})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, len(first.Recommendations), len(second.Recommendations))
}

func TestGetRecommendedConnectionsConfiguredLimit(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	matches := []*user.Profile{
		testProfile(uid(2), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio),
		testProfile(uid(3), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio),
		testProfile(uid(4), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio),
	}

	repo := newFakeUserRepo(append([]*user.Profile{requester}, matches...)...)
	handler := NewGetRecommendedConnectionsHandler(repo, recommendation.MustNewScorer(), nil, false, Limits{
		DefaultConnections: 2,
		MaxConnections:     2,
	})

	// Default comes from the configured limits, not the fallback constant.
	result, err := handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
		MinScore:    0.3,
	})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
	assert.Equal(t, 2, result.SearchCriteria.Limit)
	assert.Equal(t, 3, result.TotalMatched)

	// Requested limit above the configured ceiling is clamped.
	result, err = handler.Handle(context.Background(), GetRecommendedConnectionsQuery{
		RequesterID: requester.ID.String(),
		Limit:       10,
		MinScore:    0.3,
	})
	require.NoError(t, err)
	assert.Len(t, result.Recommendations, 2)
	assert.Equal(t, 2, result.SearchCriteria.Limit)
}
