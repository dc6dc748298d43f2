package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
	"github.com/fitcircle/fitcircle-backend/internal/domain/workout"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY
// Implements user.Repository and user.ConnectionRepository on PostgreSQL.
// Candidate profiles are loaded with their recent workout history in one
// windowed query instead of one query per candidate.
// ══════════════════════════════════════════════════════════════════════════════

const userColumns = `id, username, email, password_hash, first_name, last_name, bio,
	fitness_level, primary_goal, is_active, last_login_at, created_at, updated_at`

// UserRepository is the PostgreSQL implementation of the user repositories.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// scanProfile scans a user row into a domain profile.
func scanProfile(row pgx.Row) (*user.Profile, error) {
	var (
		p            user.Profile
		id           string
		username     string
		email        string
		fitnessLevel *string
		primaryGoal  *string
	)

	err := row.Scan(
		&id,
		&username,
		&email,
		&p.PasswordHash,
		&p.FirstName,
		&p.LastName,
		&p.Bio,
		&fitnessLevel,
		&primaryGoal,
		&p.IsActive,
		&p.LastLoginAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ID = shared.UserID(id)
	p.Username = shared.Username(username)
	p.Email = shared.Email(email)
	// NULL level/goal means the attribute is not set and never matches.
	if fitnessLevel != nil {
		p.FitnessLevel = user.FitnessLevel(*fitnessLevel)
	}
	if primaryGoal != nil {
		p.PrimaryGoal = user.PrimaryGoal(*primaryGoal)
	}

	return &p, nil
}

// GetByID returns a profile with its connections and recent workouts.
func (r *UserRepository) GetByID(ctx context.Context, id shared.UserID) (*user.Profile, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)

	profile, err := scanProfile(r.conn.QueryRow(ctx, query, id.String()))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("user", "GetByID", shared.ErrDataStore, "failed to load user", err)
	}

	connectionIDs, err := r.ConnectionIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.ConnectionIDs = connectionIDs

	workouts, err := r.recentWorkouts(ctx, id)
	if err != nil {
		return nil, err
	}
	profile.RecentWorkouts = workouts

	return profile, nil
}

// GetByIDs returns profiles with recent workouts, ordered by ID ascending.
// Missing IDs are silently skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []shared.UserID) ([]*user.Profile, error) {
	if len(ids) == 0 {
		return []*user.Profile{}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM users WHERE id = ANY($1::uuid[]) ORDER BY id ASC", userColumns)

	rows, err := r.conn.Query(ctx, query, userIDsToStrings(ids))
	if err != nil {
		return nil, shared.WrapError("user", "GetByIDs", shared.ErrDataStore, "failed to load users", err)
	}
	defer rows.Close()

	profiles, err := collectProfiles(rows)
	if err != nil {
		return nil, shared.WrapError("user", "GetByIDs", shared.ErrDataStore, "failed to scan users", err)
	}

	if err := r.attachRecentWorkouts(ctx, profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}

// Exists checks whether an active user with the given ID exists.
func (r *UserRepository) Exists(ctx context.Context, id shared.UserID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND is_active = TRUE)",
		id.String(),
	).Scan(&exists)
	if err != nil {
		return false, shared.WrapError("user", "Exists", shared.ErrDataStore, "failed to check user", err)
	}
	return exists, nil
}

// FindCandidates returns active users matching the filter, ordered by ID
// ascending so the selection is deterministic.
func (r *UserRepository) FindCandidates(ctx context.Context, filter user.CandidateFilter) ([]*user.Profile, error) {
	var sb strings.Builder
	args := make([]interface{}, 0, 4)

	sb.WriteString(fmt.Sprintf("SELECT %s FROM users u WHERE u.is_active = TRUE", userColumns))

	args = append(args, userIDsToStrings(filter.ExcludeIDs))
	sb.WriteString(fmt.Sprintf(" AND NOT (u.id = ANY($%d::uuid[]))", len(args)))

	if filter.FitnessLevel.IsKnown() {
		args = append(args, filter.FitnessLevel.String())
		sb.WriteString(fmt.Sprintf(" AND u.fitness_level = $%d", len(args)))
	}
	if filter.PrimaryGoal.IsKnown() {
		args = append(args, filter.PrimaryGoal.String())
		sb.WriteString(fmt.Sprintf(" AND u.primary_goal = $%d", len(args)))
	}
	if len(filter.WorkoutTypesAny) > 0 {
		args = append(args, workoutTypesToStrings(filter.WorkoutTypesAny))
		sb.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM (
				SELECT workout_type, ROW_NUMBER() OVER (ORDER BY performed_at DESC, id DESC) AS rn
				FROM workouts w WHERE w.user_id = u.id
			) recent
			WHERE recent.rn <= %d AND recent.workout_type = ANY($%d::text[])
		)`, workout.RecentHistoryLimit, len(args)))
	}

	sb.WriteString(" ORDER BY u.id ASC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.conn.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, shared.WrapError("user", "FindCandidates", shared.ErrDataStore, "failed to query candidates", err)
	}
	defer rows.Close()

	profiles, err := collectProfiles(rows)
	if err != nil {
		return nil, shared.WrapError("user", "FindCandidates", shared.ErrDataStore, "failed to scan candidates", err)
	}

	if err := r.attachRecentWorkouts(ctx, profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Workout history loading
// ──────────────────────────────────────────────────────────────────────────────

const workoutColumns = "id, user_id, title, workout_type, intensity, duration_min, performed_at"

// recentWorkouts loads the recent history for a single user.
func (r *UserRepository) recentWorkouts(ctx context.Context, id shared.UserID) ([]workout.Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM workouts
		WHERE user_id = $1
		ORDER BY performed_at DESC, id DESC
		LIMIT $2`, workoutColumns)

	rows, err := r.conn.Query(ctx, query, id.String(), workout.RecentHistoryLimit)
	if err != nil {
		return nil, shared.WrapError("workout", "RecentByUser", shared.ErrDataStore, "failed to load workouts", err)
	}
	defer rows.Close()

	return collectWorkouts(rows)
}

// attachRecentWorkouts loads recent histories for many profiles in one
// windowed query and attaches them.
func (r *UserRepository) attachRecentWorkouts(ctx context.Context, profiles []*user.Profile) error {
	if len(profiles) == 0 {
		return nil
	}

	ids := make([]string, len(profiles))
	byID := make(map[shared.UserID]*user.Profile, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID.String()
		byID[p.ID] = p
	}

	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY performed_at DESC, id DESC) AS rn
			FROM workouts
			WHERE user_id = ANY($1::uuid[])
		) recent
		WHERE recent.rn <= $2`, workoutColumns, workoutColumns)

	rows, err := r.conn.Query(ctx, query, ids, workout.RecentHistoryLimit)
	if err != nil {
		return shared.WrapError("workout", "RecentByUsers", shared.ErrDataStore, "failed to load workouts", err)
	}
	defer rows.Close()

	summaries, err := collectWorkouts(rows)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		if p, ok := byID[s.UserID]; ok {
			p.RecentWorkouts = append(p.RecentWorkouts, s)
		}
	}
	for _, p := range profiles {
		p.SetRecentWorkouts(p.RecentWorkouts)
	}

	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Connection graph
// ──────────────────────────────────────────────────────────────────────────────

// Connect creates a symmetric connection between two users.
func (r *UserRepository) Connect(ctx context.Context, a, b shared.UserID) error {
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		// Both directions in one transaction keeps the pair symmetric.
		for _, pair := range [][2]string{{a.String(), b.String()}, {b.String(), a.String()}} {
			if _, err := tx.Exec(ctx,
				"INSERT INTO user_connections (user_id, connected_user_id) VALUES ($1, $2)",
				pair[0], pair[1],
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrConnectionExists
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("connection", "Connect", shared.ErrDataStore, "failed to create connection", err)
	}
	return nil
}

// Disconnect removes a symmetric connection between two users.
func (r *UserRepository) Disconnect(ctx context.Context, a, b shared.UserID) error {
	var removed int64
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM user_connections
			 WHERE (user_id = $1 AND connected_user_id = $2)
			    OR (user_id = $2 AND connected_user_id = $1)`,
			a.String(), b.String(),
		)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return shared.WrapError("connection", "Disconnect", shared.ErrDataStore, "failed to remove connection", err)
	}
	if removed == 0 {
		return shared.ErrConnectionNotFound
	}
	return nil
}

// AreConnected checks whether a connection exists between two users.
func (r *UserRepository) AreConnected(ctx context.Context, a, b shared.UserID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM user_connections WHERE user_id = $1 AND connected_user_id = $2)",
		a.String(), b.String(),
	).Scan(&exists)
	if err != nil {
		return false, shared.WrapError("connection", "AreConnected", shared.ErrDataStore, "failed to check connection", err)
	}
	return exists, nil
}

// ConnectionIDs returns the IDs of all users connected to id, ascending.
func (r *UserRepository) ConnectionIDs(ctx context.Context, id shared.UserID) ([]shared.UserID, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT connected_user_id FROM user_connections WHERE user_id = $1 ORDER BY connected_user_id ASC",
		id.String(),
	)
	if err != nil {
		return nil, shared.WrapError("connection", "ConnectionIDs", shared.ErrDataStore, "failed to load connections", err)
	}
	defer rows.Close()

	out := make([]shared.UserID, 0)
	for rows.Next() {
		var connected string
		if err := rows.Scan(&connected); err != nil {
			return nil, shared.WrapError("connection", "ConnectionIDs", shared.ErrDataStore, "failed to scan connection", err)
		}
		out = append(out, shared.UserID(connected))
	}
	return out, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ──────────────────────────────────────────────────────────────────────────────

func collectProfiles(rows pgx.Rows) ([]*user.Profile, error) {
	profiles := make([]*user.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func collectWorkouts(rows pgx.Rows) ([]workout.Summary, error) {
	summaries := make([]workout.Summary, 0)
	for rows.Next() {
		var (
			s         workout.Summary
			userID    string
			typ       string
			intensity *string
			performed time.Time
		)
		if err := rows.Scan(&s.ID, &userID, &s.Title, &typ, &intensity, &s.DurationMinutes, &performed); err != nil {
			return nil, shared.WrapError("workout", "Scan", shared.ErrDataStore, "failed to scan workout", err)
		}
		s.UserID = shared.UserID(userID)
		s.Type = workout.Type(typ)
		if intensity != nil {
			s.Intensity = workout.Intensity(*intensity)
		}
		s.PerformedAt = performed
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func userIDsToStrings(ids []shared.UserID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func workoutTypesToStrings(types []workout.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
