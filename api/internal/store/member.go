package store

import "context"

// ActiveMemberIDs returns the ids of active users in the group, excluding
// the given user. Deactivated users never show up as match candidates.
// Ordered by user id so candidate enumeration is stable between calls.
func (s *Store) ActiveMemberIDs(ctx context.Context, groupID, excludingUserID int64) ([]int64, error) {
	const q = `
select gm.user_id
from group_members gm
join users u on u.id = gm.user_id
where gm.group_id = $1
  and gm.user_id <> $2
  and u.is_active
order by gm.user_id`

	rows, err := s.DB.QueryContext(ctx, q, groupID, excludingUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
