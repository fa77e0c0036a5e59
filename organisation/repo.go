package organisation

import "context"

// Repo provides storage for the organisation hierarchy. List filters are
// optional: a zero poleID or serviceID returns everything.
type Repo interface {
	UpsertPole(ctx context.Context, pole *Pole) error
	GetPole(ctx context.Context, id int64) (*Pole, error)
	ListPoles(ctx context.Context) ([]*Pole, error)
	DeletePole(ctx context.Context, id int64) error

	UpsertService(ctx context.Context, service *Service) error
	GetService(ctx context.Context, id int64) (*Service, error)
	ListServices(ctx context.Context, poleID int64) ([]*Service, error)
	DeleteService(ctx context.Context, id int64) error

	UpsertTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, id int64) (*Team, error)
	ListTeams(ctx context.Context, serviceID int64) ([]*Team, error)
	DeleteTeam(ctx context.Context, id int64) error
}
