// Package paths provides XDG-compliant path resolution for gitscribe.
//
// Resolution order:
// 1. GITSCRIBE_HOME (portable root) → $GITSCRIBE_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/gitscribe
// 3. Platform defaults → ~/.config/gitscribe, ~/.local/state/gitscribe
package paths

import (
	"os"
	"path/filepath"
	"time"
)

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("GITSCRIBE_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("GITSCRIBE_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the gitscribe configuration directory.
// Used for config files like gitscribe.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "gitscribe")
}

// StateDir returns the gitscribe state directory.
// Used for session snapshots, logs, and the pid file.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, "gitscribe")
}

// RuntimeDir returns the directory for sockets and pipes.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir.
func RuntimeDir() string {
	if home := os.Getenv("GITSCRIBE_HOME"); home != "" {
		return filepath.Join(home, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "gitscribe")
	}
	return StateDir()
}

// LogDir returns the directory daemon logs are written to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// LogFile returns the dated daemon log file path all components
// append to.
func LogFile() string {
	dir := LogDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "gitscribe-"+time.Now().Format("2006-01-02")+".log")
}

// SocketPath returns the path to the admin unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "admin.sock")
}

// PidFilePath returns the path to the daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "gitscribe.pid")
}

// EnsureDirs creates all gitscribe directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		LogDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
