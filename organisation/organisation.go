package organisation

import (
	"time"

	"github.com/mpigajesse/yoozak-backoffice/users"
)

// Pole is a top-level division of the company (production, logistics, ...).
type Pole struct {
	ID            int64
	Nom           string
	Code          string
	Description   string
	ResponsableID *int64
	EstActif      bool
	DateCreation  time.Time
}

// Service belongs to a pole.
type Service struct {
	ID            int64
	Nom           string
	Description   string
	PoleID        int64
	ResponsableID *int64
	EstActif      bool
	DateCreation  time.Time
}

// Team belongs to a service.
type Team struct {
	ID            int64
	Nom           string
	Description   string
	ServiceID     int64
	ResponsableID *int64
	EstActif      bool
	DateCreation  time.Time
}

// PolePayload is the wire representation of a pole. The responsable field is
// expanded to a summary of the responsible user when one is assigned.
type PolePayload struct {
	ID           int64                `json:"id"`
	Nom          string               `json:"nom"`
	Code         string               `json:"code"`
	Description  string               `json:"description"`
	Responsable  *users.SimplePayload `json:"responsable"`
	EstActif     bool                 `json:"est_actif"`
	DateCreation string               `json:"date_creation"`
}

type ServicePayload struct {
	ID           int64                `json:"id"`
	Nom          string               `json:"nom"`
	Description  string               `json:"description"`
	PoleID       int64                `json:"pole"`
	Responsable  *users.SimplePayload `json:"responsable"`
	EstActif     bool                 `json:"est_actif"`
	DateCreation string               `json:"date_creation"`
}

type TeamPayload struct {
	ID           int64                `json:"id"`
	Nom          string               `json:"nom"`
	Description  string               `json:"description"`
	ServiceID    int64                `json:"service"`
	Responsable  *users.SimplePayload `json:"responsable"`
	EstActif     bool                 `json:"est_actif"`
	DateCreation string               `json:"date_creation"`
}

func (p Pole) Payload(responsable *users.User) PolePayload {
	return PolePayload{
		ID:           p.ID,
		Nom:          p.Nom,
		Code:         p.Code,
		Description:  p.Description,
		Responsable:  simplePayload(responsable),
		EstActif:     p.EstActif,
		DateCreation: p.DateCreation.UTC().Format(time.RFC3339),
	}
}

func (s Service) Payload(responsable *users.User) ServicePayload {
	return ServicePayload{
		ID:           s.ID,
		Nom:          s.Nom,
		Description:  s.Description,
		PoleID:       s.PoleID,
		Responsable:  simplePayload(responsable),
		EstActif:     s.EstActif,
		DateCreation: s.DateCreation.UTC().Format(time.RFC3339),
	}
}

func (tm Team) Payload(responsable *users.User) TeamPayload {
	return TeamPayload{
		ID:           tm.ID,
		Nom:          tm.Nom,
		Description:  tm.Description,
		ServiceID:    tm.ServiceID,
		Responsable:  simplePayload(responsable),
		EstActif:     tm.EstActif,
		DateCreation: tm.DateCreation.UTC().Format(time.RFC3339),
	}
}

func simplePayload(u *users.User) *users.SimplePayload {
	if u == nil {
		return nil
	}
	sp := u.SimplePayload()
	return &sp
}
