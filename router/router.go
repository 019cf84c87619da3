// Package router normalizes commands from every chat surface into a single
// dispatch path: sanitize input, apply the session, talk to the repository
// gateway, and render a plain-text reply.
package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gitscribe/gitscribe/activity"
	"github.com/gitscribe/gitscribe/config"
	"github.com/gitscribe/gitscribe/errors"
	"github.com/gitscribe/gitscribe/github"
	"github.com/gitscribe/gitscribe/logging"
	"github.com/gitscribe/gitscribe/session"
)

// Source identifies which chat surface produced an invocation.
type Source string

const (
	SourcePrefix Source = "prefix"
	SourceSlash  Source = "slash"
)

// Invocation is one normalized command. Both surfaces produce this shape;
// nothing below the surface layer knows where a command came from beyond
// Source.
type Invocation struct {
	ID     string
	UserID string
	Name   string
	Args   []string
	Source Source
}

// NewInvocation builds an Invocation with a fresh correlation ID.
func NewInvocation(userID, name string, args []string, source Source) Invocation {
	return Invocation{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Args:   args,
		Source: source,
	}
}

// ReplyFile is an attachment carried alongside a reply.
type ReplyFile struct {
	Name    string
	Content []byte
}

// Reply is what goes back to the originating channel.
type Reply struct {
	Text string
	File *ReplyFile
}

type handlerFunc func(ctx context.Context, inv Invocation) (Reply, error)

// Options wires a Router's collaborators.
type Options struct {
	Sessions *session.Store
	Gateway  github.Client
	Activity *activity.Log
	Config   *config.Config

	// Restart is invoked when the owner issues the restart command. It must
	// not block.
	Restart func()
}

// Router dispatches invocations to command handlers, one in flight per user.
type Router struct {
	sessions *session.Store
	gateway  github.Client
	activity *activity.Log
	restart  func()
	logger   *logrus.Entry

	cfgMu sync.RWMutex
	cfg   *config.Config

	lanesMu sync.Mutex
	lanes   map[string]*sync.Mutex

	handlers map[string]handlerFunc
}

// New creates a Router. Options.Sessions, Gateway, Activity, and Config are
// required.
func New(opts Options) *Router {
	r := &Router{
		sessions: opts.Sessions,
		gateway:  opts.Gateway,
		activity: opts.Activity,
		restart:  opts.Restart,
		cfg:      opts.Config,
		logger:   logging.NewLogger("router"),
		lanes:    make(map[string]*sync.Mutex),
	}

	r.handlers = map[string]handlerFunc{
		"repo":    r.cmdRepo,
		"create":  r.cmdCreate,
		"edit":    r.cmdEdit,
		"view":    r.cmdView,
		"delete":  r.cmdDelete,
		"list":    r.cmdList,
		"current": r.cmdCurrent,
		"branch":  r.cmdBranch,
		"commit":  r.cmdCommit,
		"prefix":  r.cmdPrefix,
		"history": r.cmdHistory,
		"stats":   r.cmdStats,
		"help":    r.cmdHelp,
		"reset":   r.cmdReset,
		"restart": r.cmdRestart,
	}

	return r
}

// UpdateConfig swaps in a reloaded configuration. Handlers always read the
// current one, so prefix, ignore patterns, and the owner gate apply to the
// next command without a restart.
func (r *Router) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	r.cfgMu.Lock()
	r.cfg = cfg
	r.cfgMu.Unlock()
}

func (r *Router) config() *config.Config {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return r.cfg
}

// lane returns the serialization mutex for a user, creating it on first use.
func (r *Router) lane(userID string) *sync.Mutex {
	r.lanesMu.Lock()
	defer r.lanesMu.Unlock()

	mu, ok := r.lanes[userID]
	if !ok {
		mu = &sync.Mutex{}
		r.lanes[userID] = mu
	}
	return mu
}

// Handle runs one invocation to completion and renders the outcome as a
// Reply. It never returns an error; failures come back as reply text.
// Invocations for the same user are serialized in arrival order, distinct
// users proceed in parallel.
func (r *Router) Handle(ctx context.Context, inv Invocation) Reply {
	lane := r.lane(inv.UserID)
	lane.Lock()
	defer lane.Unlock()

	log := r.logger.WithFields(logrus.Fields{
		"id":      inv.ID,
		"user":    lastFour(inv.UserID),
		"command": inv.Name,
		"source":  inv.Source,
	})

	reply, err := r.dispatch(ctx, inv)
	if err != nil {
		log.WithError(err).Warn("Command failed")
		return Reply{Text: r.renderError(err)}
	}

	log.Debug("Command completed")
	return reply
}

// dispatch looks up and runs the handler, converting panics into typed
// internal errors so one bad command cannot take the surface down.
func (r *Router) dispatch(ctx context.Context, inv Invocation) (reply Reply, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithField("id", inv.ID).Errorf("Panic in %s handler: %v", inv.Name, rec)
			err = errors.Internal(inv.Name, fmt.Errorf("panic: %v", rec))
		}
	}()

	handler, ok := r.handlers[inv.Name]
	if !ok {
		return Reply{}, errors.UnknownCommand(inv.Name)
	}

	return handler(ctx, inv)
}

// lastFour truncates a user ID for log fields.
func lastFour(id string) string {
	if len(id) <= 4 {
		return id
	}
	return "..." + id[len(id)-4:]
}
