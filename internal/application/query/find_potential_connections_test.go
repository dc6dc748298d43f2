package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

func TestFindPotentialConnections(t *testing.T) {
	requester := testProfile(uid(1), user.LevelAdvanced, user.GoalStrength)

	match := testProfile(uid(2), user.LevelAdvanced, user.GoalStrength)
	wrongGoal := testProfile(uid(3), user.LevelAdvanced, user.GoalEndurance)
	wrongLevel := testProfile(uid(4), user.LevelBeginner, user.GoalStrength)

	handler := NewFindPotentialConnectionsHandler(newFakeUserRepo(requester, match, wrongGoal, wrongLevel), DefaultLimits())

	result, err := handler.Handle(context.Background(), FindPotentialConnectionsQuery{
		RequesterID: requester.ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, result.Users, 1)
	assert.Equal(t, match.ID.String(), result.Users[0].ID)
	assert.Equal(t, 1, result.TotalFound)
}

func TestFindPotentialConnectionsUnknownAttributes(t *testing.T) {
	requester := testProfile(uid(1), user.LevelUnknown, user.GoalStrength)
	other := testProfile(uid(2), user.LevelUnknown, user.GoalStrength)

	handler := NewFindPotentialConnectionsHandler(newFakeUserRepo(requester, other), DefaultLimits())

	result, err := handler.Handle(context.Background(), FindPotentialConnectionsQuery{
		RequesterID: requester.ID.String(),
	})
	require.NoError(t, err)
	// Unknown level cannot match anyone, even another unknown.
	assert.Empty(t, result.Users)
}

func TestFindPotentialConnectionsExcludesConnections(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral)
	connected := testProfile(uid(2), user.LevelBeginner, user.GoalGeneral)
	free := testProfile(uid(3), user.LevelBeginner, user.GoalGeneral)
	requester.ConnectionIDs = []shared.UserID{connected.ID}

	handler := NewFindPotentialConnectionsHandler(newFakeUserRepo(requester, connected, free), DefaultLimits())

	result, err := handler.Handle(context.Background(), FindPotentialConnectionsQuery{
		RequesterID: requester.ID.String(),
	})
	require.NoError(t, err)

	require.Len(t, result.Users, 1)
	assert.Equal(t, free.ID.String(), result.Users[0].ID)
}

func TestFindPotentialConnectionsValidation(t *testing.T) {
	handler := NewFindPotentialConnectionsHandler(newFakeUserRepo(), DefaultLimits())

	_, err := handler.Handle(context.Background(), FindPotentialConnectionsQuery{})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = handler.Handle(context.Background(), FindPotentialConnectionsQuery{RequesterID: uid(1).String()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetUserProfile(t *testing.T) {
	profile := testProfile(uid(1), user.LevelBeginner, user.GoalGeneral, workout.TypeCardio)
	profile.ConnectionIDs = []shared.UserID{uid(2), uid(3)}

	handler := NewGetUserProfileHandler(newFakeUserRepo(profile))

	result, err := handler.Handle(context.Background(), GetUserProfileQuery{UserID: profile.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, profile.ID.String(), result.User.ID)
	assert.Equal(t, 2, result.ConnectionCount)
	require.Len(t, result.RecentWorkouts, 1)
	assert.Equal(t, "cardio", result.RecentWorkouts[0].Type)
}

func TestGetUserProfileNotFound(t *testing.T) {
	handler := NewGetUserProfileHandler(newFakeUserRepo())

	_, err := handler.Handle(context.Background(), GetUserProfileQuery{UserID: uid(1).String()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestFindPotentialConnectionsConfiguredLimit(t *testing.T) {
	requester := testProfile(uid(1), user.LevelBeginner, user.GoalStrength)
	profiles := []*user.Profile{requester}
	for n := byte(2); n <= 5; n++ {
		profiles = append(profiles, testProfile(uid(n), user.LevelBeginner, user.GoalStrength))
	}

	handler := NewFindPotentialConnectionsHandler(newFakeUserRepo(profiles...), Limits{DefaultPotential: 3})

	result, err := handler.Handle(context.Background(), FindPotentialConnectionsQuery{RequesterID: requester.ID.String()})
	require.NoError(t, err)
	assert.Len(t, result.Users, 3)
}
