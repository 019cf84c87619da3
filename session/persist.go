package session

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gitscribe/gitscribe/errors"
)

// snapshotFile is the on-disk layout of a session snapshot.
type snapshotFile struct {
	Sessions map[string]Session `yaml:"sessions"`
}

// Persist writes every session to path as YAML. The write goes
// through a temp file and rename so a crash never leaves a torn
// snapshot. Pending commit messages are conversation-scoped and are
// not written.
func (s *Store) Persist(path string) error {
	snap := snapshotFile{Sessions: s.Snapshot()}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "marshal session snapshot")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create state directory")
	}

	tmp, err := os.CreateTemp(dir, ".sessions-*.yml")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create snapshot temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "write session snapshot")
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "chmod session snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "close session snapshot")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "replace session snapshot")
	}
	return nil
}

// Restore loads a snapshot written by Persist, replacing any sessions
// already in the store for the listed users. A missing file is not an
// error.
func (s *Store) Restore(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.StateCorrupt(path, err)
	}

	var snap snapshotFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return errors.StateCorrupt(path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range snap.Sessions {
		s.entries[id] = &entry{sess: sess}
	}
	return nil
}
