// Package state persists bot state across restarts: the session store
// and the activity log, each as a YAML snapshot in the state
// directory.
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gitscribe/gitscribe/activity"
	"github.com/gitscribe/gitscribe/logging"
	"github.com/gitscribe/gitscribe/session"
)

const (
	sessionFile  = "sessions.yml"
	activityFile = "activity.yml"
)

// SessionPath returns the session snapshot location inside dir.
func SessionPath(dir string) string {
	return filepath.Join(dir, sessionFile)
}

// ActivityPath returns the activity snapshot location inside dir.
func ActivityPath(dir string) string {
	return filepath.Join(dir, activityFile)
}

// Save writes the current sessions and activity to dir.
func Save(dir string, store *session.Store, log *activity.Log) error {
	// Snapshots name users and their private repositories, so the
	// whole directory stays owner-only.
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	if err := store.Persist(SessionPath(dir)); err != nil {
		return err
	}
	return log.Persist(ActivityPath(dir))
}

// Restore loads both snapshots from dir. Missing files are a fresh
// start, not an error.
func Restore(dir string, store *session.Store, log *activity.Log) error {
	if err := store.Restore(SessionPath(dir)); err != nil {
		return err
	}
	return log.Restore(ActivityPath(dir))
}

// Autosave persists state every interval until ctx is canceled, then
// saves once more on the way out so a clean shutdown never loses a
// session.
func Autosave(ctx context.Context, dir string, store *session.Store, log *activity.Log, interval time.Duration) error {
	logger := logging.NewLogger("state")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Save(dir, store, log)
		case <-ticker.C:
			if err := Save(dir, store, log); err != nil {
				logger.WithError(err).Warn("State autosave failed")
			}
		}
	}
}
