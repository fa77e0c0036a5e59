package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/organisation"
)

var _ organisation.Repo = (*Repo)(nil)

// Repo is the Postgres-backed organisation repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) UpsertPole(ctx context.Context, pole *organisation.Pole) error {
	if pole.DateCreation.IsZero() {
		pole.DateCreation = time.Now()
	}
	if pole.ID == 0 {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO poles (nom, code, description, responsable_id, est_actif, date_creation)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, pole.Nom, pole.Code, pole.Description, pole.ResponsableID, pole.EstActif, pole.DateCreation)
		if err := row.Scan(&pole.ID); err != nil {
			return errors.Wrap(err, "[organisation postgres.UpsertPole] insert")
		}
		return nil
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE poles
		SET nom = $2, code = $3, description = $4, responsable_id = $5, est_actif = $6
		WHERE id = $1
	`, pole.ID, pole.Nom, pole.Code, pole.Description, pole.ResponsableID, pole.EstActif)
	if err != nil {
		return errors.Wrap(err, "[organisation postgres.UpsertPole] update")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) GetPole(ctx context.Context, id int64) (*organisation.Pole, error) {
	var pole organisation.Pole
	row := r.pool.QueryRow(ctx, `
		SELECT id, nom, code, COALESCE(description, ''), responsable_id, est_actif, date_creation
		FROM poles WHERE id = $1
	`, id)
	err := row.Scan(&pole.ID, &pole.Nom, &pole.Code, &pole.Description,
		&pole.ResponsableID, &pole.EstActif, &pole.DateCreation)
	if err == pgx.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[organisation postgres.GetPole] scan")
	}
	return &pole, nil
}

func (r *Repo) ListPoles(ctx context.Context) ([]*organisation.Pole, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nom, code, COALESCE(description, ''), responsable_id, est_actif, date_creation
		FROM poles ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "[organisation postgres.ListPoles] query")
	}
	defer rows.Close()

	var list []*organisation.Pole
	for rows.Next() {
		var pole organisation.Pole
		err := rows.Scan(&pole.ID, &pole.Nom, &pole.Code, &pole.Description,
			&pole.ResponsableID, &pole.EstActif, &pole.DateCreation)
		if err != nil {
			return nil, errors.Wrap(err, "[organisation postgres.ListPoles] scan")
		}
		list = append(list, &pole)
	}
	return list, nil
}

func (r *Repo) DeletePole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM poles WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[organisation postgres.DeletePole] delete")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) UpsertService(ctx context.Context, service *organisation.Service) error {
	if service.DateCreation.IsZero() {
		service.DateCreation = time.Now()
	}
	if service.ID == 0 {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO services (nom, description, pole_id, responsable_id, est_actif, date_creation)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, service.Nom, service.Description, service.PoleID, service.ResponsableID,
			service.EstActif, service.DateCreation)
		if err := row.Scan(&service.ID); err != nil {
			return errors.Wrap(err, "[organisation postgres.UpsertService] insert")
		}
		return nil
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE services
		SET nom = $2, description = $3, pole_id = $4, responsable_id = $5, est_actif = $6
		WHERE id = $1
	`, service.ID, service.Nom, service.Description, service.PoleID,
		service.ResponsableID, service.EstActif)
	if err != nil {
		return errors.Wrap(err, "[organisation postgres.UpsertService] update")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) GetService(ctx context.Context, id int64) (*organisation.Service, error) {
	var service organisation.Service
	row := r.pool.QueryRow(ctx, `
		SELECT id, nom, COALESCE(description, ''), pole_id, responsable_id, est_actif, date_creation
		FROM services WHERE id = $1
	`, id)
	err := row.Scan(&service.ID, &service.Nom, &service.Description, &service.PoleID,
		&service.ResponsableID, &service.EstActif, &service.DateCreation)
	if err == pgx.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[organisation postgres.GetService] scan")
	}
	return &service, nil
}

func (r *Repo) ListServices(ctx context.Context, poleID int64) ([]*organisation.Service, error) {
	query := `
		SELECT id, nom, COALESCE(description, ''), pole_id, responsable_id, est_actif, date_creation
		FROM services`
	args := []any{}
	if poleID != 0 {
		query += ` WHERE pole_id = $1`
		args = append(args, poleID)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "[organisation postgres.ListServices] query")
	}
	defer rows.Close()

	var list []*organisation.Service
	for rows.Next() {
		var service organisation.Service
		err := rows.Scan(&service.ID, &service.Nom, &service.Description, &service.PoleID,
			&service.ResponsableID, &service.EstActif, &service.DateCreation)
		if err != nil {
			return nil, errors.Wrap(err, "[organisation postgres.ListServices] scan")
		}
		list = append(list, &service)
	}
	return list, nil
}

func (r *Repo) DeleteService(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[organisation postgres.DeleteService] delete")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) UpsertTeam(ctx context.Context, team *organisation.Team) error {
	if team.DateCreation.IsZero() {
		team.DateCreation = time.Now()
	}
	if team.ID == 0 {
		row := r.pool.QueryRow(ctx, `
			INSERT INTO teams (nom, description, service_id, responsable_id, est_actif, date_creation)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, team.Nom, team.Description, team.ServiceID, team.ResponsableID,
			team.EstActif, team.DateCreation)
		if err := row.Scan(&team.ID); err != nil {
			return errors.Wrap(err, "[organisation postgres.UpsertTeam] insert")
		}
		return nil
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE teams
		SET nom = $2, description = $3, service_id = $4, responsable_id = $5, est_actif = $6
		WHERE id = $1
	`, team.ID, team.Nom, team.Description, team.ServiceID,
		team.ResponsableID, team.EstActif)
	if err != nil {
		return errors.Wrap(err, "[organisation postgres.UpsertTeam] update")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *Repo) GetTeam(ctx context.Context, id int64) (*organisation.Team, error) {
	var team organisation.Team
	row := r.pool.QueryRow(ctx, `
		SELECT id, nom, COALESCE(description, ''), service_id, responsable_id, est_actif, date_creation
		FROM teams WHERE id = $1
	`, id)
	err := row.Scan(&team.ID, &team.Nom, &team.Description, &team.ServiceID,
		&team.ResponsableID, &team.EstActif, &team.DateCreation)
	if err == pgx.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "[organisation postgres.GetTeam] scan")
	}
	return &team, nil
}

func (r *Repo) ListTeams(ctx context.Context, serviceID int64) ([]*organisation.Team, error) {
	query := `
		SELECT id, nom, COALESCE(description, ''), service_id, responsable_id, est_actif, date_creation
		FROM teams`
	args := []any{}
	if serviceID != 0 {
		query += ` WHERE service_id = $1`
		args = append(args, serviceID)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "[organisation postgres.ListTeams] query")
	}
	defer rows.Close()

	var list []*organisation.Team
	for rows.Next() {
		var team organisation.Team
		err := rows.Scan(&team.ID, &team.Nom, &team.Description, &team.ServiceID,
			&team.ResponsableID, &team.EstActif, &team.DateCreation)
		if err != nil {
			return nil, errors.Wrap(err, "[organisation postgres.ListTeams] scan")
		}
		list = append(list, &team)
	}
	return list, nil
}

func (r *Repo) DeleteTeam(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "[organisation postgres.DeleteTeam] delete")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
