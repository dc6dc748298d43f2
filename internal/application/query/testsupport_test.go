package query

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

// fakeUserRepo is an in-memory user.Repository for handler tests.
type fakeUserRepo struct {
	profiles map[shared.UserID]*user.Profile
	failWith error
}

func newFakeUserRepo(profiles ...*user.Profile) *fakeUserRepo {
	repo := &fakeUserRepo{profiles: make(map[shared.UserID]*user.Profile)}
	for _, p := range profiles {
		repo.profiles[p.ID] = p
	}
	return repo
}

func (f *fakeUserRepo) GetByID(_ context.Context, id shared.UserID) (*user.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return p, nil
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, ids []shared.UserID) ([]*user.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]*user.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.profiles[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, id shared.UserID) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	p, ok := f.profiles[id]
	return ok && p.IsActive, nil
}

func (f *fakeUserRepo) FindCandidates(_ context.Context, filter user.CandidateFilter) ([]*user.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	excluded := make(map[shared.UserID]bool, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = true
	}
	wanted := workout.TypeSetOf(filter.WorkoutTypesAny...)

	out := make([]*user.Profile, 0)
	for _, p := range f.profiles {
		if !p.IsActive || excluded[p.ID] {
			continue
		}
		if filter.FitnessLevel.IsKnown() && p.FitnessLevel != filter.FitnessLevel {
			continue
		}
		if filter.PrimaryGoal.IsKnown() && p.PrimaryGoal != filter.PrimaryGoal {
			continue
		}
		if !wanted.IsEmpty() && wanted.Intersect(p.WorkoutTypes()) == 0 {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// fakeResultCache is an in-memory ResultCache for handler tests.
type fakeResultCache struct {
	entries map[string][]byte
	sets    int
	hits    int
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{entries: make(map[string][]byte)}
}

func (f *fakeResultCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeResultCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}
