package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create users table
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(30) NOT NULL UNIQUE,
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(100) NOT NULL,
    first_name VARCHAR(50) NOT NULL DEFAULT '',
    last_name VARCHAR(50) NOT NULL DEFAULT '',
    bio TEXT NOT NULL DEFAULT '',
    fitness_level VARCHAR(20),
    primary_goal VARCHAR(20),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    last_login_at TIMESTAMP WITH TIME ZONE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- NULL fitness_level / primary_goal means "not set yet";
    -- such profiles never match on these attributes.
    CONSTRAINT valid_fitness_level CHECK (
        fitness_level IS NULL OR fitness_level IN ('beginner', 'intermediate', 'advanced')
    ),
    CONSTRAINT valid_primary_goal CHECK (
        primary_goal IS NULL OR primary_goal IN ('strength', 'weight-loss', 'endurance', 'flexibility', 'general')
    )
);

CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
CREATE INDEX IF NOT EXISTS idx_users_fitness_level ON users(fitness_level) WHERE fitness_level IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_users_primary_goal ON users(primary_goal) WHERE primary_goal IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_users_active ON users(id) WHERE is_active = TRUE;

-- Composite index for the potential-connections lookup
CREATE INDEX IF NOT EXISTS idx_users_level_goal ON users(fitness_level, primary_goal) WHERE is_active = TRUE;
`

const migration001Down = `
DROP TABLE IF EXISTS users CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE WORKOUTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create workouts table
-- Version: 002

CREATE TABLE IF NOT EXISTS workouts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL DEFAULT '',
    workout_type VARCHAR(20) NOT NULL,
    intensity VARCHAR(10),
    duration_min INTEGER NOT NULL DEFAULT 0,
    performed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_workout_type CHECK (
        workout_type IN ('strength', 'cardio', 'flexibility', 'hiit', 'yoga', 'other')
    ),
    CONSTRAINT valid_intensity CHECK (
        intensity IS NULL OR intensity IN ('low', 'medium', 'high')
    ),
    CONSTRAINT valid_duration CHECK (duration_min >= 0)
);

CREATE INDEX IF NOT EXISTS idx_workouts_user_id ON workouts(user_id);
CREATE INDEX IF NOT EXISTS idx_workouts_user_recent ON workouts(user_id, performed_at DESC);
CREATE INDEX IF NOT EXISTS idx_workouts_type ON workouts(workout_type);
`

const migration002Down = `
DROP TABLE IF EXISTS workouts CASCADE;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE USER CONNECTIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create user_connections table
-- Version: 003

-- Connections are stored as symmetric pairs: connecting A and B inserts
-- both (A, B) and (B, A), so lookups by user_id need no OR clause.
CREATE TABLE IF NOT EXISTS user_connections (
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    connected_user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (user_id, connected_user_id),
    CONSTRAINT no_self_connection CHECK (user_id <> connected_user_id)
);

CREATE INDEX IF NOT EXISTS idx_user_connections_user ON user_connections(user_id);
`

const migration003Down = `
DROP TABLE IF EXISTS user_connections CASCADE;
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_workouts",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_user_connections",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
