package session

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo persists the session snapshot as a JSON file. Tokens are
// credentials, so the file is written owner-only.
type FileRepo struct {
	path string
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

func (fr *FileRepo) Load() (*Snapshot, error) {
	raw, err := os.ReadFile(fr.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileRepo.Load] read snapshot")
	}
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, errors.Wrap(err, "[FileRepo.Load] parse snapshot")
	}
	return &snapshot, nil
}

func (fr *FileRepo) Save(snapshot *Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "[FileRepo.Save] marshal snapshot")
	}
	if err := os.WriteFile(fr.path, raw, 0o600); err != nil {
		return errors.Wrap(err, "[FileRepo.Save] write snapshot")
	}
	return nil
}

func (fr *FileRepo) Clear() error {
	err := os.Remove(fr.path)
	if os.IsNotExist(err) {
		return nil
	}
	return errors.Wrap(err, "[FileRepo.Clear] remove snapshot")
}
