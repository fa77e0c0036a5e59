package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/users"
)

var _ users.UserRepo = (*Repo)(nil)

// Repo is the Postgres-backed user repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `id, username, email, password_hash, first_name, last_name,
	is_staff, is_superuser, is_active, date_joined, last_login`

func (r *Repo) Create(ctx context.Context, user *users.User) error {
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name,
			is_staff, is_superuser, is_active, date_joined)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.IsStaff, user.IsSuperuser, user.IsActive, user.DateJoined)
	if err := row.Scan(&user.ID); err != nil {
		return errors.Wrap(err, "[users postgres.Create] insert")
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, user *users.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, first_name = $5,
			last_name = $6, is_staff = $7, is_superuser = $8, is_active = $9
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName,
		user.LastName, user.IsStaff, user.IsSuperuser, user.IsActive)
	if err != nil {
		return errors.Wrap(err, "[users postgres.Update] update")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[users postgres.Delete] delete")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*users.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *Repo) get(ctx context.Context, query string, arg any) (*users.User, error) {
	var user users.User
	row := r.pool.QueryRow(ctx, query, arg)
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.IsActive,
		&user.DateJoined,
		&user.LastLogin,
	)
	if err == pgx.ErrNoRows {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[users postgres.get] scan")
	}
	if err := r.loadGrants(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repo) loadGrants(ctx context.Context, user *users.User) error {
	rows, err := r.pool.Query(ctx, `
		SELECT g.id, g.name
		FROM auth_groups g
		JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1
		ORDER BY g.id
	`, user.ID)
	if err != nil {
		return errors.Wrap(err, "[users postgres.loadGrants] groups query")
	}
	defer rows.Close()
	for rows.Next() {
		var g users.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return errors.Wrap(err, "[users postgres.loadGrants] groups scan")
		}
		user.Groups = append(user.Groups, g)
	}

	permRows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.codename
		FROM auth_permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
		ORDER BY p.id
	`, user.ID)
	if err != nil {
		return errors.Wrap(err, "[users postgres.loadGrants] permissions query")
	}
	defer permRows.Close()
	for permRows.Next() {
		var p users.Permission
		if err := permRows.Scan(&p.ID, &p.Name, &p.Codename); err != nil {
			return errors.Wrap(err, "[users postgres.loadGrants] permissions scan")
		}
		user.Permissions = append(user.Permissions, p)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, offset, limit int) (users.UsersListResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return users.UsersListResponse{}, errors.Wrap(err, "[users postgres.List] count")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return users.UsersListResponse{}, errors.Wrap(err, "[users postgres.List] query")
	}
	defer rows.Close()

	resp := users.UsersListResponse{Total: total, Offset: offset, Limit: limit}
	for rows.Next() {
		var user users.User
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.IsStaff,
			&user.IsSuperuser,
			&user.IsActive,
			&user.DateJoined,
			&user.LastLogin,
		)
		if err != nil {
			return users.UsersListResponse{}, errors.Wrap(err, "[users postgres.List] scan")
		}
		resp.Users = append(resp.Users, &user)
	}
	return resp, nil
}

func (r *Repo) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return errors.Wrap(err, "[users postgres.SetLastLogin] update")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
