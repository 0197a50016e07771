package queries

const (
	QueryCreateUser = `
		INSERT INTO users (username, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	QueryGetUserByID = `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	QueryGetUserByUsername = `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE username = $1;
	`
	QueryExistsUserByUsername = `SELECT 1 FROM users WHERE username = $1;`
	QueryListUsers            = `
		SELECT id, username, created_at, updated_at
		FROM users
		ORDER BY username;
	`
	QuerySearchUsers = `
		SELECT id, username, created_at, updated_at
		FROM users
		WHERE username ILIKE $1
		  AND ($2::bigint = 0 OR id <> $2)
		ORDER BY username
		LIMIT $3;
	`
)
