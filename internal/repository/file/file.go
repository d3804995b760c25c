// Package file persists the whole record store to a single data file.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jwalitptl/hms/internal/model"
	apperrors "github.com/jwalitptl/hms/pkg/errors"
)

// Save writes snapshot to a temp file next to path and renames it into
// place, so a crash mid-write never leaves a truncated data file.
func Save(path string, snapshot *model.Snapshot) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewIOFailure("could not open save file for writing", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, snapshot); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return apperrors.NewIOFailure("failed to sync save file", err)
	}
	if err = tmp.Close(); err != nil {
		return apperrors.NewIOFailure("failed to close save file", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewIOFailure("failed to replace data file", err)
	}
	return nil
}

// Load reads the data file at path. A missing file is the normal first-run
// state and yields an empty snapshot.
func Load(path string) (*model.Snapshot, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewSnapshot(), nil
	}
	if err != nil {
		return nil, apperrors.NewIOFailure("could not open data file", err)
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return snap, nil
}
