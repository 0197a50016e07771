package queries

const messageDetailsColumns = `
	m.id, m.content, m.sender_id, m.recipient_id, m.group_id, m.created_at,
	u.username, ru.username, g.name
`

const messageDetailsJoins = `
	JOIN users u ON u.id = m.sender_id
	LEFT JOIN users ru ON ru.id = m.recipient_id
	LEFT JOIN groups g ON g.id = m.group_id
`

const (
	QueryCreateMessage = `
		WITH m AS (
			INSERT INTO messages (content, sender_id, recipient_id, group_id)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)
		SELECT ` + messageDetailsColumns + `
		FROM m` + messageDetailsJoins + `;`

	QueryGetMessageDetails = `
		SELECT ` + messageDetailsColumns + `
		FROM messages m` + messageDetailsJoins + `
		WHERE m.id = $1;`

	// $3/$4: курсор (created_at, id), NULL = с самых свежих
	QueryDirectMessages = `
		SELECT ` + messageDetailsColumns + `
		FROM messages m` + messageDetailsJoins + `
		WHERE ((m.sender_id = $1 AND m.recipient_id = $2) OR (m.sender_id = $2 AND m.recipient_id = $1))
		  AND ($3::timestamptz IS NULL OR m.created_at < $3 OR (m.created_at = $3 AND m.id < $4))
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $5;`

	QueryGroupMessages = `
		SELECT ` + messageDetailsColumns + `
		FROM messages m` + messageDetailsJoins + `
		WHERE m.group_id = $1
		  AND ($2::timestamptz IS NULL OR m.created_at < $2 OR (m.created_at = $2 AND m.id < $3))
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $4;`

	QueryAllMessages = `
		SELECT ` + messageDetailsColumns + `
		FROM messages m` + messageDetailsJoins + `
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $1;`

	QueryDirectConversations = `
		SELECT other.id, other.username, MAX(m.created_at) AS last_message_at
		FROM messages m
		JOIN users other ON other.id = CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END
		WHERE (m.sender_id = $1 OR m.recipient_id = $1)
		  AND m.group_id IS NULL
		GROUP BY other.id, other.username
		ORDER BY last_message_at DESC;`

	QueryGroupConversations = `
		SELECT g.id, g.name, g.description, MAX(m.created_at) AS last_message_at
		FROM messages m
		JOIN groups g ON g.id = m.group_id
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		GROUP BY g.id, g.name, g.description
		ORDER BY last_message_at DESC;`
)
