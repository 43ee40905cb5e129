// Package lifecycle owns the single-shot session: it sequences
// dependency verification, environment resolution, service startup,
// artifact materialization, and the client launch, and guarantees
// that teardown runs exactly once however the session ends.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"zenctl/internal/config"
	"zenctl/internal/deps"
	"zenctl/internal/env"
	"zenctl/internal/launcher"
	"zenctl/internal/mcpconfig"
	"zenctl/internal/supervisor"
	"zenctl/pkg/logging"
)

// State is the controller's lifecycle state. It only advances;
// Terminated is absorbing.
type State string

const (
	StateIdle        State = "Idle"
	StateStarting    State = "Starting"
	StateRunning     State = "Running"
	StateTerminating State = "Terminating"
	StateTerminated  State = "Terminated"
)

var stateRank = map[State]int{
	StateIdle:        0,
	StateStarting:    1,
	StateRunning:     2,
	StateTerminating: 3,
	StateTerminated:  4,
}

// ServiceSupervisor is the slice of the supervisor the controller
// needs: idempotent startup and bounded termination.
type ServiceSupervisor interface {
	EnsureRunning(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Artifact is the slice of the configuration artifact the controller
// needs for teardown.
type Artifact interface {
	Remove() error
}

// Mockable for tests.
var osExit = os.Exit

// Controller sequences a session and owns every resource it spawns:
// the supervised service handle (via the supervisor) and the
// ephemeral configuration artifact.
type Controller struct {
	cfg config.Config

	// Collaborators, replaceable by tests.
	verify      func(ctx context.Context, required []deps.Dependency) []deps.Dependency
	resolve     func() (*env.Bundle, error)
	supervisor  ServiceSupervisor
	materialize func(bundle *env.Bundle) (Artifact, string, error)
	launch      func(ctx context.Context, prompt, artifactPath, workingDir string) (int, error)

	mu       sync.Mutex
	state    State
	artifact Artifact

	teardownOnce sync.Once
}

// New creates a Controller wired to the real collaborators.
func New(cfg config.Config) *Controller {
	c := &Controller{
		cfg:        cfg,
		state:      StateIdle,
		verify:     deps.Verify,
		resolve:    env.Resolve,
		supervisor: supervisor.New(cfg.Redis, cfg.Timeouts),
		launch:     launcher.Run,
	}
	c.materialize = func(bundle *env.Bundle) (Artifact, string, error) {
		artifact, err := mcpconfig.Create(bundle, cfg.Redis, cfg.Zen)
		if err != nil {
			return nil, "", err
		}
		return artifact, artifact.Path, nil
	}
	return c
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// advance moves the state forward. Backward transitions are ignored:
// once Terminating is reached, nothing can return the session to
// Running, and Terminated is final.
func (c *Controller) advance(next State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stateRank[next] > stateRank[c.state] {
		logging.Debug("lifecycle", "State %s -> %s", c.state, next)
		c.state = next
	}
}

// Run executes the session and returns the process exit code: 1 for
// fatal setup errors (missing dependency or credential, before
// anything is spawned), otherwise the client tool's own exit code.
// Teardown has run by the time Run returns, on every path.
func (c *Controller) Run(ctx context.Context, prompt, workingDir string) int {
	c.advance(StateStarting)
	c.registerSignalHandlers()

	// 1. Dependencies, first and unconditionally.
	if missing := c.verify(ctx, deps.Required); len(missing) > 0 {
		fmt.Fprintln(os.Stderr, "Missing dependencies:")
		for _, dep := range missing {
			fmt.Fprintf(os.Stderr, "- %s (%s)\n", dep.Desc, dep.Install)
		}
		fmt.Fprintln(os.Stderr, "Exiting with code 1.")
		c.Teardown()
		return 1
	}

	// 2. Credentials and settings.
	bundle, err := c.resolve()
	if err != nil {
		var missing *env.MissingCredentialError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "ERROR: %s environment variable not set\n", missing.Variable)
			fmt.Fprintf(os.Stderr, "Please set: export %s=your-key-here\n", missing.Variable)
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		fmt.Fprintln(os.Stderr, "Exiting with code 1.")
		c.Teardown()
		return 1
	}

	// 3. The Redis dependency, best-effort: a start failure degrades
	// the session instead of aborting it.
	if err := c.supervisor.EnsureRunning(ctx); err != nil {
		logging.Warn("lifecycle", "Failed to start Redis: %v. Some features may not work properly without Redis", err)
	}

	c.advance(StateRunning)

	// 4. The ephemeral configuration artifact, owned here until
	// teardown deletes it.
	artifact, artifactPath, err := c.materialize(bundle)
	if err != nil {
		logging.Error("lifecycle", err, "Failed to create MCP configuration")
		c.Teardown()
		return 1
	}
	c.mu.Lock()
	c.artifact = artifact
	c.mu.Unlock()

	// 5. The client, synchronously; its exit code becomes ours.
	code, err := c.launch(ctx, prompt, artifactPath, workingDir)
	if err != nil {
		logging.Error("lifecycle", err, "Failed to launch claude")
		code = 1
	} else if code != 0 {
		logging.Info("lifecycle", "claude exited with code %d", code)
	}

	c.Teardown()
	return code
}

// registerSignalHandlers routes SIGINT and SIGTERM to the same
// guarded teardown as every other trigger. The handler does nothing
// beyond requesting teardown and exiting.
func (c *Controller) registerSignalHandlers() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		fmt.Fprintf(os.Stderr, "\nReceived %s, cleaning up...\n", sig)
		c.Teardown()
		osExit(0)
	}()
}

// Teardown releases every owned resource exactly once: bounded
// graceful-then-forced termination of the supervised process, then
// artifact removal. Concurrent triggers (signal, setup failure,
// normal return) collapse into a single execution. Teardown never
// fails the session; cleanup errors are logged only.
func (c *Controller) Teardown() {
	c.teardownOnce.Do(func() {
		c.advance(StateTerminating)

		if err := c.supervisor.Stop(context.Background()); err != nil {
			logging.Warn("lifecycle", "Failed to stop Redis cleanly: %v", err)
		}

		c.mu.Lock()
		artifact := c.artifact
		c.mu.Unlock()
		if artifact != nil {
			if err := artifact.Remove(); err != nil {
				logging.Warn("lifecycle", "Failed to remove MCP configuration: %v", err)
			}
		}

		c.advance(StateTerminated)
	})
}
