package queries

// Schema применяется по порядку при postgres.migrate=true; все операторы идемпотентны.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		password      VARCHAR(255) NOT NULL,
		username      VARCHAR(100) UNIQUE NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		description TEXT,
		created_by  BIGINT REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		id        BIGSERIAL PRIMARY KEY,
		group_id  BIGINT REFERENCES groups(id) ON DELETE CASCADE,
		user_id   BIGINT REFERENCES users(id) ON DELETE CASCADE,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           BIGSERIAL PRIMARY KEY,
		content      TEXT NOT NULL,
		sender_id    BIGINT REFERENCES users(id),
		recipient_id BIGINT REFERENCES users(id),
		group_id     BIGINT REFERENCES groups(id),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		CHECK (
			(recipient_id IS NOT NULL AND group_id IS NULL) OR
			(recipient_id IS NULL AND group_id IS NOT NULL)
		)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_group ON messages(group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_group_members_group ON group_members(group_id)`,
}
