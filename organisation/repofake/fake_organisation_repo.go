package fakeorganisationrepo

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/mpigajesse/yoozak-backoffice/internal/errors"
	"github.com/mpigajesse/yoozak-backoffice/organisation"
)

var _ organisation.Repo = (*FakeOrganisationRepo)(nil)

type FakeOrganisationRepo struct {
	poles    map[int64]*organisation.Pole
	services map[int64]*organisation.Service
	teams    map[int64]*organisation.Team
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeOrganisationRepo() *FakeOrganisationRepo {
	return &FakeOrganisationRepo{
		poles:    make(map[int64]*organisation.Pole),
		services: make(map[int64]*organisation.Service),
		teams:    make(map[int64]*organisation.Team),
		nextID:   1,
	}
}

func (or *FakeOrganisationRepo) UpsertPole(_ context.Context, pole *organisation.Pole) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	if pole.ID == 0 {
		pole.ID = or.nextID
		or.nextID++
	}
	cp := *pole
	or.poles[cp.ID] = &cp
	return nil
}

func (or *FakeOrganisationRepo) GetPole(_ context.Context, id int64) (*organisation.Pole, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	pole, ok := or.poles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *pole
	return &cp, nil
}

func (or *FakeOrganisationRepo) ListPoles(_ context.Context) ([]*organisation.Pole, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	list := make([]*organisation.Pole, 0, len(or.poles))
	for _, pole := range or.poles {
		cp := *pole
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (or *FakeOrganisationRepo) DeletePole(_ context.Context, id int64) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	if _, ok := or.poles[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(or.poles, id)
	return nil
}

func (or *FakeOrganisationRepo) UpsertService(_ context.Context, service *organisation.Service) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	if service.ID == 0 {
		service.ID = or.nextID
		or.nextID++
	}
	cp := *service
	or.services[cp.ID] = &cp
	return nil
}

func (or *FakeOrganisationRepo) GetService(_ context.Context, id int64) (*organisation.Service, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	service, ok := or.services[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *service
	return &cp, nil
}

func (or *FakeOrganisationRepo) ListServices(_ context.Context, poleID int64) ([]*organisation.Service, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	list := make([]*organisation.Service, 0, len(or.services))
	for _, service := range or.services {
		if poleID != 0 && service.PoleID != poleID {
			continue
		}
		cp := *service
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (or *FakeOrganisationRepo) DeleteService(_ context.Context, id int64) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	if _, ok := or.services[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(or.services, id)
	return nil
}

func (or *FakeOrganisationRepo) UpsertTeam(_ context.Context, team *organisation.Team) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	if team.ID == 0 {
		team.ID = or.nextID
		or.nextID++
	}
	cp := *team
	or.teams[cp.ID] = &cp
	return nil
}

func (or *FakeOrganisationRepo) GetTeam(_ context.Context, id int64) (*organisation.Team, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	team, ok := or.teams[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *team
	return &cp, nil
}

func (or *FakeOrganisationRepo) ListTeams(_ context.Context, serviceID int64) ([]*organisation.Team, error) {
	or.lock.RLock()
	defer or.lock.RUnlock()

	list := make([]*organisation.Team, 0, len(or.teams))
	for _, team := range or.teams {
		if serviceID != 0 && team.ServiceID != serviceID {
			continue
		}
		cp := *team
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (or *FakeOrganisationRepo) DeleteTeam(_ context.Context, id int64) error {
	or.lock.Lock()
	defer or.lock.Unlock()

	if _, ok := or.teams[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(or.teams, id)
	return nil
}
