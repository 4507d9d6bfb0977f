package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at boot. Every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    subject_id uuid PRIMARY KEY,
    email text NOT NULL,
    name text,
    credential_secret text NOT NULL,
    is_authenticated boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_unique
ON users (LOWER(email));

CREATE TABLE IF NOT EXISTS profiles (
    profile_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    eco_goals text,
    content_preferences text,
    challenge_levels text,
    avatar_url text,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW(),
    CONSTRAINT profiles_user_unique UNIQUE (user_id)
);

CREATE TABLE IF NOT EXISTS dashboards (
    dashboard_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    achievements text,
    ongoing_challenges text,
    suggestions text,
    CONSTRAINT dashboards_user_unique UNIQUE (user_id)
);

CREATE TABLE IF NOT EXISTS carbon_footprints (
    footprint_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    daily_activities text,
    calculated_footprint double precision,
    activity_breakdown text,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS carbon_footprints_user_created_idx
ON carbon_footprints (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS weekly_reports (
    report_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    performance_summary text,
    suggestions text,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS weekly_reports_user_created_idx
ON weekly_reports (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS notifications (
    notification_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    content text NOT NULL,
    is_read boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS notifications_user_created_idx
ON notifications (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS forums (
    forum_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    title text NOT NULL,
    content text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS events (
    event_id uuid PRIMARY KEY,
    organizer_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    title text NOT NULL,
    description text,
    location text,
    date_time timestamptz,
    rsvp text,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS challenges (
    challenge_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    title text NOT NULL,
    description text,
    frequency text,
    points_awarded integer,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS resources (
    resource_id uuid PRIMARY KEY,
    title text NOT NULL,
    content text,
    category text,
    posted_on date NOT NULL DEFAULT CURRENT_DATE
);

CREATE TABLE IF NOT EXISTS partnerships (
    partnership_id uuid PRIMARY KEY,
    user_id uuid NOT NULL REFERENCES users(subject_id) ON DELETE CASCADE,
    organization_name text NOT NULL,
    description text,
    website_url text,
    created_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS idempotency_keys (
    idempotency_key text NOT NULL,
    subject_id text NOT NULL,
    method text NOT NULL,
    route text NOT NULL,
    body_hash text NOT NULL,
    status_code integer NOT NULL,
    content_type text NOT NULL,
    body bytea NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    PRIMARY KEY (idempotency_key, subject_id, method, route, body_hash)
);
`

// Migrate applies the schema. Safe to call on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
