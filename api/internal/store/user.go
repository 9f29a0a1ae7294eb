package store

import (
	"context"
	"database/sql"
)

type User struct {
	ID       int64
	Username *string
	IsActive bool
}

// FindUserByID returns a single user by telegram id.
func (s *Store) FindUserByID(ctx context.Context, id int64) (User, error) {
	const q = `
select username, is_active
from users
where id = $1`
	var (
		username sql.NullString
		isActive bool
	)
	if err := s.DB.QueryRowContext(ctx, q, id).Scan(
		&username,
		&isActive,
	); err != nil {
		return User{}, err
	}

	u := User{ID: id, IsActive: isActive}
	if username.Valid {
		u.Username = &username.String
	}
	return u, nil
}

// UpsertUser inserts/updates a user by id (PK: id). Re-registering always
// reactivates the account.
func (s *Store) UpsertUser(ctx context.Context, u User) error {
	const q = `
insert into users (id, username, is_active) values ($1, $2, $3)
on conflict (id) do update
set
	username  = excluded.username,
	is_active = excluded.is_active`
	_, err := s.DB.ExecContext(ctx, q,
		u.ID,
		u.Username,
		u.IsActive,
	)
	return err
}
