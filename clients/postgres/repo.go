package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/mpigajesse/yoozak-backoffice/clients"
	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
)

var _ clients.Repo = (*Repo)(nil)

// Repo is the Postgres-backed customer profile repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Upsert(ctx context.Context, client *clients.Client) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO clients (user_id, nom, prenom, phone, genre, point_de_fidelite)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET nom = $2, prenom = $3, phone = $4, genre = $5, point_de_fidelite = $6
		RETURNING id
	`, client.UserID, client.Nom, client.Prenom, client.Phone, client.Genre, client.PointsFidelite)
	if err := row.Scan(&client.ID); err != nil {
		return errors.Wrap(err, "[clients postgres.Upsert] insert")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[clients postgres.Delete] delete")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByUserID(ctx context.Context, userID int64) (*clients.Client, error) {
	var client clients.Client
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, nom, prenom, COALESCE(phone, ''), COALESCE(genre, ''), point_de_fidelite
		FROM clients
		WHERE user_id = $1
	`, userID)
	err := row.Scan(&client.ID, &client.UserID, &client.Nom, &client.Prenom,
		&client.Phone, &client.Genre, &client.PointsFidelite)
	if err == pgx.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[clients postgres.GetByUserID] scan")
	}
	return &client, nil
}
