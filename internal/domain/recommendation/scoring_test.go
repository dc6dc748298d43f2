package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

func profileWith(id string, level user.FitnessLevel, goal user.PrimaryGoal, types ...workout.Type) *user.Profile {
	p := &user.Profile{
		ID:           shared.UserID(id),
		Username:     shared.Username("user_" + id[len(id)-1:]),
		Email:        shared.Email("u" + id[len(id)-1:] + "@example.com"),
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

const (
	idA = "6f1c8a52-0000-4000-8000-000000000001"
	idB = "6f1c8a52-0000-4000-8000-000000000002"
	idC = "6f1c8a52-0000-4000-8000-000000000003"
)

func TestScorerIdenticalProfiles(t *testing.T) {
	scorer := MustNewScorer()

	a := profileWith(idA, user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga)
	b := profileWith(idB, user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga)

	assert.InDelta(t, 1.0, scorer.Score(a, b).Float64(), 1e-9)
}

func TestScorerWorkedExample(t *testing.T) {
	scorer := MustNewScorer()

	// Same level (1.0), different goal (0), Jaccard {cardio,yoga} vs {cardio} = 0.5.
	// (1*1 + 2*0 + 2*0.5) / 5 = 0.4
	a := profileWith(idA, user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga)
	b := profileWith(idB, user.LevelBeginner, user.GoalWeightLoss, workout.TypeCardio)

	assert.InDelta(t, 0.4, scorer.Score(a, b).Float64(), 1e-9)
}

func TestScorerSymmetry(t *testing.T) {
	scorer := MustNewScorer()

	profiles := []*user.Profile{
		profileWith(idA, user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga),
		profileWith(idB, user.LevelAdvanced, user.GoalStrength, workout.TypeStrength),
		profileWith(idC, user.LevelUnknown, user.GoalUnknown),
	}

	for _, a := range profiles {
		for _, b := range profiles {
			assert.Equal(t, scorer.Score(a, b), scorer.Score(b, a))
		}
	}
}

func TestScorerBounds(t *testing.T) {
	scorer := MustNewScorer()

	cases := []struct {
		a, b *user.Profile
	}{
		{profileWith(idA, user.LevelBeginner, user.GoalGeneral), profileWith(idB, user.LevelAdvanced, user.GoalStrength)},
		{profileWith(idA, user.LevelUnknown, user.GoalUnknown), profileWith(idB, user.LevelUnknown, user.GoalUnknown)},
		{profileWith(idA, user.LevelBeginner, user.GoalGeneral, workout.TypeYoga), profileWith(idB, user.LevelBeginner, user.GoalGeneral, workout.TypeYoga)},
	}

	for _, c := range cases {
		s := scorer.Score(c.a, c.b)
		assert.True(t, s.IsValid(), "score %v out of range", s)
	}
}

func TestScorerUnknownNeverMatches(t *testing.T) {
	scorer := MustNewScorer()

	// Both have unknown level and goal, no workouts: score must be 0, not 1.
	a := profileWith(idA, user.LevelUnknown, user.GoalUnknown)
	b := profileWith(idB, user.LevelUnknown, user.GoalUnknown)

	assert.InDelta(t, 0.0, scorer.Score(a, b).Float64(), 1e-9)
}

func TestScorerEmptyHistoriesContributeNothing(t *testing.T) {
	scorer := MustNewScorer()

	a := profileWith(idA, user.LevelBeginner, user.GoalGeneral)
	b := profileWith(idB, user.LevelBeginner, user.GoalGeneral)

	// Level (1) + goal (2) only: 3/5.
	assert.InDelta(t, 0.6, scorer.Score(a, b).Float64(), 1e-9)
}

func TestScoreWithBreakdown(t *testing.T) {
	scorer := MustNewScorer()

	a := profileWith(idA, user.LevelBeginner, user.GoalGeneral, workout.TypeCardio, workout.TypeYoga)
	b := profileWith(idB, user.LevelBeginner, user.GoalWeightLoss, workout.TypeCardio)

	score, breakdown := scorer.ScoreWithBreakdown(a, b)
	assert.InDelta(t, 0.4, score.Float64(), 1e-9)
	assert.InDelta(t, 1.0, breakdown["fitness_level"], 1e-9)
	assert.InDelta(t, 0.0, breakdown["primary_goal"], 1e-9)
	assert.InDelta(t, 1.0, breakdown["workout_overlap"], 1e-9)
}

func TestNewScorerRejectsInvalidWeights(t *testing.T) {
	_, err := NewScorer(Weights{FitnessLevel: -1, PrimaryGoal: 2, WorkoutOverlap: 2})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewScorer(Weights{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestScoreQuality(t *testing.T) {
	assert.Equal(t, QualityExcellent, Score(0.9).Quality())
	assert.Equal(t, QualityGood, Score(0.6).Quality())
	assert.Equal(t, QualityFair, Score(0.4).Quality())
	assert.Equal(t, QualityPoor, Score(0.2).Quality())
	assert.Equal(t, QualityNone, Score(0.1).Quality())
}

func TestListSortIsDeterministic(t *testing.T) {
	list := List{
		{Profile: profileWith(idC, user.LevelBeginner, user.GoalGeneral), Score: 0.4},
		{Profile: profileWith(idA, user.LevelBeginner, user.GoalGeneral), Score: 0.8},
		{Profile: profileWith(idB, user.LevelBeginner, user.GoalGeneral), Score: 0.4},
	}

	list.Sort()

	require.Len(t, list, 3)
	assert.Equal(t, shared.UserID(idA), list[0].Profile.ID)
	// Equal scores break ties by ascending ID.
	assert.Equal(t, shared.UserID(idB), list[1].Profile.ID)
	assert.Equal(t, shared.UserID(idC), list[2].Profile.ID)
}

func TestListFilterAndTopN(t *testing.T) {
	list := List{
		{Profile: profileWith(idA, user.LevelBeginner, user.GoalGeneral), Score: 0.8},
		{Profile: profileWith(idB, user.LevelBeginner, user.GoalGeneral), Score: 0.3},
		{Profile: profileWith(idC, user.LevelBeginner, user.GoalGeneral), Score: 0.1},
	}

	filtered := list.FilterByMinScore(0.3)
	require.Len(t, filtered, 2)

	top := filtered.TopN(1)
	require.Len(t, top, 1)
	assert.Equal(t, Score(0.8), top[0].Score)

	// TopN with n larger than the list is a no-op.
	assert.Len(t, filtered.TopN(10), 2)
}
