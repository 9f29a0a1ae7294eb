package store

import (
	"context"
	"database/sql"
)

type Group struct {
	ID          int64
	Name        string
	Description *string
}

// FindGroupByID returns a single group by its primary key (id).
func (s *Store) FindGroupByID(ctx context.Context, id int64) (Group, error) {
	const q = `
select id, name, description
from groups
where id = $1`
	var (
		gid         int64
		name        string
		description sql.NullString
	)
	if err := s.DB.QueryRowContext(ctx, q, id).Scan(
		&gid,
		&name,
		&description,
	); err != nil {
		return Group{}, err
	}
	g := Group{
		ID:   gid,
		Name: name,
	}
	if description.Valid {
		g.Description = &description.String
	}
	return g, nil
}

// AddGroupMember adds the user to a group; joining again is a no-op.
func (s *Store) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	const q = `
insert into group_members (group_id, user_id)
values ($1, $2)
on conflict (group_id, user_id) do nothing`
	_, err := s.DB.ExecContext(ctx, q, groupID, userID)
	return err
}
