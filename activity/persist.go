package activity

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gitscribe/gitscribe/errors"
)

// snapshotFile is the on-disk layout of an activity snapshot.
type snapshotFile struct {
	Users map[string]*userLog `yaml:"users"`
}

// Persist writes the activity log to path as YAML via a temp file and
// rename.
func (l *Log) Persist(path string) error {
	l.mu.RLock()
	snap := snapshotFile{Users: make(map[string]*userLog, len(l.users))}
	for id, ul := range l.users {
		cp := &userLog{
			Events: append([]Event(nil), ul.Events...),
			Totals: make(map[Kind]int, len(ul.Totals)),
		}
		for k, v := range ul.Totals {
			cp.Totals[k] = v
		}
		snap.Users[id] = cp
	}
	l.mu.RUnlock()

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "marshal activity snapshot")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create state directory")
	}

	tmp, err := os.CreateTemp(dir, ".activity-*.yml")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "create snapshot temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "write activity snapshot")
	}
	if err := tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, errors.ErrCodeInternal, "chmod activity snapshot")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "close activity snapshot")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "replace activity snapshot")
	}
	return nil
}

// Restore loads a snapshot written by Persist. A missing file is not
// an error. Restored rings are re-trimmed to the log's capacity.
func (l *Log) Restore(path string) error {
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

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, ul := range snap.Users {
		if ul == nil {
			continue
		}
		if ul.Totals == nil {
			ul.Totals = make(map[Kind]int)
		}
		if len(ul.Events) > l.capacity {
			ul.Events = ul.Events[len(ul.Events)-l.capacity:]
		}
		l.users[id] = ul
	}
	return nil
}
