package session

// Snapshot is the slice of session state that survives restarts. Transient
// flags (loading, last error) are never part of it.
type Snapshot struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	CurrentUser  *User  `json:"currentUser"`
}

// Repo persists session snapshots between runs.
type Repo interface {
	Load() (*Snapshot, error)
	Save(snapshot *Snapshot) error
	Clear() error
}
