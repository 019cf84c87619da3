package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gitscribe/gitscribe/activity"
	"github.com/gitscribe/gitscribe/cli"
	"github.com/gitscribe/gitscribe/config"
	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/github"
	"github.com/gitscribe/gitscribe/internal/admin"
	"github.com/gitscribe/gitscribe/internal/discord"
	"github.com/gitscribe/gitscribe/internal/pidfile"
	"github.com/gitscribe/gitscribe/logging"
	"github.com/gitscribe/gitscribe/pkg/paths"
	"github.com/gitscribe/gitscribe/router"
	"github.com/gitscribe/gitscribe/session"
	"github.com/gitscribe/gitscribe/state"
)

// ExitRestart is the exit code serve finishes with after the owner runs
// the restart command. Supervisors treat it as "start me again".
const ExitRestart = 3

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve command that runs the bot in the
// foreground until signalled.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and serve commands",
		Long: `Connect to Discord and serve commands until stopped.

Runs in the foreground. Sessions and activity are restored from the
state directory on startup and snapshotted back on an interval and at
shutdown. Send SIGTERM or press Ctrl+C to stop.`,
		RunE: runServe,
	}
}

// NewStopCmd creates the stop command.
func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop a running bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidPath := paths.PidFilePath()
			running, pid, err := pidfile.IsRunning(pidPath)
			if err != nil {
				return fmt.Errorf("failed to check bot status: %w", err)
			}
			if !running {
				fmt.Println("Bot is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to stop bot: %w", err)
			}

			fmt.Printf("Sent stop signal to bot (PID: %d)\n", pid)
			return nil
		},
	}
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the bot is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("failed to check bot status: %w", err)
			}
			if running {
				fmt.Printf("Bot is running (PID: %d)\n", pid)
				return nil
			}
			fmt.Println("Bot is not running")
			os.Exit(1)
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	opts := cli.GetOptions(cmd)
	handler := cli.NewErrorHandler(opts.Verbose)

	cfgPath, err := cli.InitConfig(opts.ConfigFile)
	if err != nil {
		return handler.Handle(err)
	}
	if cfgPath == "" {
		return handler.Handle(errors.ConfigNotFound("gitscribe.yml"))
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return handler.Handle(err)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		return handler.Handle(err)
	}

	logger := logging.NewLogger("serve")
	if overrides := cli.FlagOverrides(cmd); len(overrides) > 0 {
		logger.WithField("flags", overrides).Debug("Flag overrides")
	}

	stateDir := cfg.State.Dir
	if stateDir == "" {
		stateDir = paths.StateDir()
	}

	pidPath := paths.PidFilePath()
	if err := pidfile.Acquire(pidPath); err != nil {
		return handler.Handle(err)
	}
	defer pidfile.Release(pidPath)

	sessions := session.NewStore()
	activityLog := activity.NewLog(0)
	if err := state.Restore(stateDir, sessions, activityLog); err != nil {
		// A corrupt snapshot should not keep the bot down. Start
		// fresh and leave the bad file in place for inspection.
		logger.WithError(err).Warn("State restore failed, starting with empty state")
	} else if sessions.Count() > 0 {
		logger.WithField("sessions", sessions.Count()).Info("Restored sessions from snapshot")
	}

	gateway, err := github.NewSDKClient(cfg.GitHub.Token, cfg.GitHub.Owner)
	if err != nil {
		return handler.Handle(err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var restartRequested atomic.Bool
	rt := router.New(router.Options{
		Sessions: sessions,
		Gateway:  gateway,
		Activity: activityLog,
		Config:   cfg,
		Restart: func() {
			restartRequested.Store(true)
			cancel()
		},
	})

	bot, err := discord.New(cfg.Discord, rt)
	if err != nil {
		return handler.Handle(err)
	}

	watcher, err := config.NewWatcher(cfgPath, 0, logger, func(updated *config.Config) {
		if updated.Discord.Token != cfg.Discord.Token {
			logger.Warn("discord.token changed on disk; restart to apply")
		}
		if updated.GitHub.Token != cfg.GitHub.Token || updated.GitHub.Owner != cfg.GitHub.Owner {
			logger.Warn("github credentials changed on disk; restart to apply")
		}
		var logCfg logging.Config
		if err := updated.UnmarshalExtension("logging", &logCfg); err == nil && logCfg.Level != "" {
			if err := logging.SetLevel(logCfg.Level); err != nil {
				logger.WithError(err).Warn("Ignoring invalid logging.level from reload")
			}
		}
		rt.UpdateConfig(updated)
		logger.Info("Configuration reloaded")
	})
	if err != nil {
		// The watcher is a convenience; the bot can run without it.
		logger.WithError(err).Warn("Config watcher unavailable, edits require a restart")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Start(gctx)
	})

	if cfg.Admin.Enabled != nil && *cfg.Admin.Enabled {
		socketPath := cfg.Admin.Socket
		if socketPath == "" {
			socketPath = paths.SocketPath()
		}
		adminSrv := admin.New(sessions, activityLog, bot.Guilds)
		g.Go(func() error {
			return adminSrv.ListenAndServe(socketPath)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			return adminSrv.Shutdown(shutdownCtx)
		})
	}

	if watcher != nil {
		g.Go(func() error {
			watcher.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		return state.Autosave(gctx, stateDir, sessions, activityLog, cfg.State.Autosave())
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.WithField("signal", sig.String()).Info("Shutting down")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	logger.WithField("config", cfgPath).Info("Bot starting")
	err = g.Wait()

	if restartRequested.Load() {
		logger.Info("Restart requested, exiting for supervisor")
		pidfile.Release(pidPath)
		os.Exit(ExitRestart)
	}
	if err != nil {
		return handler.Handle(err)
	}
	logger.Info("Bot stopped")
	return nil
}
