package queries

const (
	QueryCreateGroup = `
		INSERT INTO groups (name, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	// несуществующие id пользователей молча пропускаются
	QueryAddGroupMembers = `
		INSERT INTO group_members (group_id, user_id)
		SELECT $1, u.id FROM users u WHERE u.id = ANY($2::bigint[])
		ON CONFLICT (group_id, user_id) DO NOTHING;
	`
	QueryGetGroupByID = `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM groups
		WHERE id = $1;
	`
	QueryListGroups = `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM groups
		ORDER BY name;
	`
	QueryListGroupsByUser = `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.name;
	`
	QueryAddGroupMember    = `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2);`
	QueryRemoveGroupMember = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2;`
	QueryListGroupMembers  = `
		SELECT u.id, u.username, gm.joined_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.username;
	`
	QueryIsGroupMember = `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2);`
)
