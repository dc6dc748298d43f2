package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitcircle/fitcircle-backend/internal/application/command"
	"github.com/fitcircle/fitcircle-backend/internal/application/query"
	"github.com/fitcircle/fitcircle-backend/internal/domain/recommendation"
	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

const (
	idAlice = "11111111-1111-1111-1111-111111111111"
	idBob   = "22222222-2222-2222-2222-222222222222"
	idCarol = "33333333-3333-3333-3333-333333333333"
)

// fakeRepo is a map-backed user.Repository and user.ConnectionRepository.
type fakeRepo struct {
	profiles map[shared.UserID]*user.Profile
	edges    map[string]bool
}

func newFakeRepo(profiles ...*user.Profile) *fakeRepo {
	r := &fakeRepo{
		profiles: make(map[shared.UserID]*user.Profile),
		edges:    make(map[string]bool),
	}
	for _, p := range profiles {
		r.profiles[p.ID] = p
	}
	return r
}

func edgeKey(a, b shared.UserID) string {
	if a < b {
		return string(a) + "|" + string(b)
	}
	return string(b) + "|" + string(a)
}

func (r *fakeRepo) GetByID(ctx context.Context, id shared.UserID) (*user.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetByIDs(ctx context.Context, ids []shared.UserID) ([]*user.Profile, error) {
	var out []*user.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) Exists(ctx context.Context, id shared.UserID) (bool, error) {
	p, ok := r.profiles[id]
	return ok && p.IsActive, nil
}

func (r *fakeRepo) FindCandidates(ctx context.Context, filter user.CandidateFilter) ([]*user.Profile, error) {
	excluded := make(map[shared.UserID]bool, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = true
	}

	var out []*user.Profile
	for _, p := range r.profiles {
		if !p.IsActive || excluded[p.ID] {
			continue
		}
		if filter.FitnessLevel != user.LevelUnknown && p.FitnessLevel != filter.FitnessLevel {
			continue
		}
		if filter.PrimaryGoal != user.GoalUnknown && p.PrimaryGoal != filter.PrimaryGoal {
			continue
		}
		if len(filter.WorkoutTypesAny) > 0 {
			types := p.WorkoutTypes()
			found := false
			for _, wt := range filter.WorkoutTypesAny {
				if types.Contains(wt) {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeRepo) Connect(ctx context.Context, a, b shared.UserID) error {
	key := edgeKey(a, b)
	if r.edges[key] {
		return shared.ErrConnectionExists
	}
	r.edges[key] = true
	return nil
}

func (r *fakeRepo) Disconnect(ctx context.Context, a, b shared.UserID) error {
	key := edgeKey(a, b)
	if !r.edges[key] {
		return shared.ErrConnectionNotFound
	}
	delete(r.edges, key)
	return nil
}

func (r *fakeRepo) AreConnected(ctx context.Context, a, b shared.UserID) (bool, error) {
	return r.edges[edgeKey(a, b)], nil
}

func (r *fakeRepo) ConnectionIDs(ctx context.Context, id shared.UserID) ([]shared.UserID, error) {
	var out []shared.UserID
	for key := range r.edges {
		parts := strings.SplitN(key, "|", 2)
		if parts[0] == string(id) {
			out = append(out, shared.UserID(parts[1]))
		} else if parts[1] == string(id) {
			out = append(out, shared.UserID(parts[0]))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func testProfile(id string, level user.FitnessLevel, goal user.PrimaryGoal, types ...workout.Type) *user.Profile {
	p := &user.Profile{
		ID:           shared.UserID(id),
		Username:     shared.Username("user_" + id[:8]),
		Email:        shared.Email("u" + id[:8] + "@fitcircle.test"),
		FitnessLevel: level,
		PrimaryGoal:  goal,
		IsActive:     true,
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now(),
	}

	summaries := make([]workout.Summary, 0, len(types))
	for i, wt := range types {
		summaries = append(summaries, workout.Summary{
			ID:              id[:8] + "-w",
			UserID:          p.ID,
			Type:            wt,
			DurationMinutes: 30,
			PerformedAt:     time.Now().Add(-time.Duration(i+1) * time.Hour),
		})
	}
	p.SetRecentWorkouts(summaries)

	return p
}

func newTestServer(t *testing.T, repo *fakeRepo) *Server {
	t.Helper()

	scorer := recommendation.MustNewScorer()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // keep tests independent of each other

	deps := Dependencies{
		GetUserProfileHandler:            query.NewGetUserProfileHandler(repo),
		GetRecommendedConnectionsHandler: query.NewGetRecommendedConnectionsHandler(repo, scorer, nil, false, query.DefaultLimits()),
		GetWorkoutBuddiesHandler:         query.NewGetWorkoutBuddiesHandler(repo, query.DefaultLimits()),
		FindPotentialConnectionsHandler:  query.NewFindPotentialConnectionsHandler(repo, query.DefaultLimits()),
		ConnectUsersHandler:              command.NewConnectUsersHandler(repo, repo, nil),
		DisconnectUsersHandler:           command.NewDisconnectUsersHandler(repo, nil),
		HealthChecker:                    nil,
	}

	return NewServer(cfg, deps)
}

func doRequest(t *testing.T, s *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, newFakeRepo())

	rec := doRequest(t, s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}

func TestGetUser(t *testing.T) {
	repo := newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength, workout.TypeCardio))
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/"+idAlice, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)

	data, _ := json.Marshal(resp.Data)
	var result query.GetUserProfileResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, idAlice, result.User.ID)
	assert.Contains(t, result.User.RecentWorkoutTypes, string(workout.TypeCardio))
}

func TestGetUserNotFound(t *testing.T) {
	s := newTestServer(t, newFakeRepo())

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/"+idAlice, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "not_found", resp.Error.Code)
}

func TestGetRecommendations(t *testing.T) {
	repo := newFakeRepo(
		testProfile(idAlice, user.LevelBeginner, user.GoalStrength, workout.TypeCardio, workout.TypeYoga),
		// Twin: same level, same goal, same workout types -> score 1.0.
		testProfile(idBob, user.LevelBeginner, user.GoalStrength, workout.TypeCardio, workout.TypeYoga),
		// Stranger: nothing in common -> score 0, below default threshold.
		testProfile(idCarol, user.LevelAdvanced, user.GoalEndurance, workout.TypeStrength),
	)
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/"+idAlice+"/recommendations", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.True(t, resp.Success)

	data, _ := json.Marshal(resp.Data)
	var result query.GetRecommendedConnectionsResult
	require.NoError(t, json.Unmarshal(data, &result))

	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, idBob, result.Recommendations[0].User.ID)
	assert.InDelta(t, 1.0, result.Recommendations[0].SimilarityScore, 1e-9)
}

func TestGetRecommendationsBadLimit(t *testing.T) {
	s := newTestServer(t, newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength)))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/"+idAlice+"/recommendations?limit=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_argument", resp.Error.Code)
}

func TestGetRecommendationsBadMinScore(t *testing.T) {
	s := newTestServer(t, newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength)))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/"+idAlice+"/recommendations?min_score=1.5", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_argument", resp.Error.Code)
}

func TestGetUserMalformedID(t *testing.T) {
	s := newTestServer(t, newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength)))

	// A malformed UUID is rejected at validation, not passed to the store.
	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_argument", resp.Error.Code)
}

func TestConnectMalformedTargetID(t *testing.T) {
	s := newTestServer(t, newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength)))

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users/"+idAlice+"/connections", `{"user_id":"not-a-uuid"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "invalid_argument", resp.Error.Code)
}

func TestGetWorkoutBuddies(t *testing.T) {
	repo := newFakeRepo(
		testProfile(idAlice, user.LevelIntermediate, user.GoalStrength, workout.TypeHIIT),
		testProfile(idBob, user.LevelIntermediate, user.GoalEndurance, workout.TypeHIIT),
		// Wrong level, never a buddy.
		testProfile(idCarol, user.LevelBeginner, user.GoalStrength, workout.TypeHIIT),
	)
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/users/"+idAlice+"/workout-buddies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.True(t, resp.Success)

	data, _ := json.Marshal(resp.Data)
	var result query.GetWorkoutBuddiesResult
	require.NoError(t, json.Unmarshal(data, &result))

	require.Len(t, result.Buddies, 1)
	assert.Equal(t, idBob, result.Buddies[0].User.ID)
	assert.Contains(t, result.Buddies[0].SharedWorkoutTypes, string(workout.TypeHIIT))
}

func TestConnectUsers(t *testing.T) {
	repo := newFakeRepo(
		testProfile(idAlice, user.LevelBeginner, user.GoalStrength),
		testProfile(idBob, user.LevelBeginner, user.GoalStrength),
	)
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users/"+idAlice+"/connections",
		`{"user_id": "`+idBob+`"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	connected, err := repo.AreConnected(context.Background(), shared.UserID(idAlice), shared.UserID(idBob))
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestConnectUsersSelf(t *testing.T) {
	repo := newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength))
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users/"+idAlice+"/connections",
		`{"user_id": "`+idAlice+`"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "self_connection", resp.Error.Code)
}

func TestConnectUsersDuplicate(t *testing.T) {
	repo := newFakeRepo(
		testProfile(idAlice, user.LevelBeginner, user.GoalStrength),
		testProfile(idBob, user.LevelBeginner, user.GoalStrength),
	)
	require.NoError(t, repo.Connect(context.Background(), shared.UserID(idAlice), shared.UserID(idBob)))
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users/"+idAlice+"/connections",
		`{"user_id": "`+idBob+`"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "already_exists", resp.Error.Code)
}

func TestConnectUsersBadJSON(t *testing.T) {
	repo := newFakeRepo(testProfile(idAlice, user.LevelBeginner, user.GoalStrength))
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/users/"+idAlice+"/connections", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisconnectUsers(t *testing.T) {
	repo := newFakeRepo(
		testProfile(idAlice, user.LevelBeginner, user.GoalStrength),
		testProfile(idBob, user.LevelBeginner, user.GoalStrength),
	)
	require.NoError(t, repo.Connect(context.Background(), shared.UserID(idAlice), shared.UserID(idBob)))
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodDelete, "/api/v1/users/"+idAlice+"/connections/"+idBob, "")

	assert.Equal(t, http.StatusNoContent, rec.Code)

	connected, err := repo.AreConnected(context.Background(), shared.UserID(idAlice), shared.UserID(idBob))
	require.NoError(t, err)
	assert.False(t, connected)
}

func TestDisconnectUsersNotConnected(t *testing.T) {
	repo := newFakeRepo(
		testProfile(idAlice, user.LevelBeginner, user.GoalStrength),
		testProfile(idBob, user.LevelBeginner, user.GoalStrength),
	)
	s := newTestServer(t, repo)

	rec := doRequest(t, s, http.MethodDelete, "/api/v1/users/"+idAlice+"/connections/"+idBob, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, newFakeRepo())

	rec := doRequest(t, s, http.MethodGet, "/live", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
