package repository

const (
	createUser = `INSERT INTO users (username, email, password, role, created_at, updated_at)
					VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'user')::user_role, now(), now())
					RETURNING *`

	getUserQuery = `SELECT user_id, username, email, role, created_at, updated_at
					FROM users
					WHERE user_id = $1`

	getUserByEmail = `SELECT user_id, username, email, password, role, created_at, updated_at
					FROM users
					WHERE email = $1`
)
