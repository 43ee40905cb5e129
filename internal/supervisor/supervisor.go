// Package supervisor idempotently ensures the Redis instance the Zen
// MCP server depends on is reachable, and owns the process handle of
// any instance it had to spawn itself.
package supervisor

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"zenctl/internal/config"
	"zenctl/pkg/logging"
)

// StartFailure reports that Redis still did not answer the liveness
// probe after a spawn attempt and the bounded startup wait. It is
// non-fatal: the session continues in degraded mode.
type StartFailure struct {
	Addr string
	Err  error
}

func (e *StartFailure) Error() string {
	return fmt.Sprintf("redis at %s did not become reachable: %v", e.Addr, e.Err)
}

func (e *StartFailure) Unwrap() error { return e.Err }

// Mockable for tests.
var (
	// probeCommand performs the liveness probe. redis-cli exits
	// non-zero when nothing answers, which is all we need.
	probeCommand = func(ctx context.Context, redis config.RedisConfig) error {
		cmd := exec.CommandContext(ctx, "redis-cli", "-h", redis.Host, "-p", strconv.Itoa(redis.Port), "ping")
		return cmd.Run()
	}

	// serverCommand builds the command that launches the server.
	serverCommand = func(redis config.RedisConfig) *exec.Cmd {
		return exec.Command("redis-server", "--port", strconv.Itoa(redis.Port))
	}
)

// Supervisor ensures a single Redis instance is reachable and owns
// the handle of the one instance it may spawn per session.
type Supervisor struct {
	redis    config.RedisConfig
	timeouts config.TimeoutConfig

	mu   sync.Mutex
	cmd  *exec.Cmd
	proc *managedProcess
}

// New creates a Supervisor for the given endpoint and timeout bounds.
func New(redis config.RedisConfig, timeouts config.TimeoutConfig) *Supervisor {
	return &Supervisor{redis: redis, timeouts: timeouts}
}

// Probe issues the liveness probe against the configured endpoint.
func (s *Supervisor) Probe(ctx context.Context) error {
	return probeCommand(ctx, s.redis)
}

// EnsureRunning makes the endpoint reachable: probe, spawn only if
// nothing answers, wait the bounded startup interval, re-probe. A
// *StartFailure from the re-probe leaves the spawned handle owned for
// later teardown; the caller decides that the session continues.
func (s *Supervisor) EnsureRunning(ctx context.Context) error {
	if err := s.Probe(ctx); err == nil {
		logging.Info("supervisor", "Redis is already running at %s", s.redis.Addr())
		return nil
	}

	logging.Info("supervisor", "Starting redis-server on port %d", s.redis.Port)
	if err := s.spawn(); err != nil {
		return &StartFailure{Addr: s.redis.Addr(), Err: err}
	}

	// Bounded wait for the server to come up before re-probing.
	select {
	case <-time.After(s.timeouts.StartupWait):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := s.Probe(ctx); err != nil {
		return &StartFailure{Addr: s.redis.Addr(), Err: err}
	}
	logging.Info("supervisor", "Redis started successfully (PID %d)", s.Pid())
	return nil
}

// spawn starts the server process with its output drained into debug
// logging and records the owned handle. At most one process is ever
// spawned per Supervisor.
func (s *Supervisor) spawn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc != nil {
		return fmt.Errorf("redis-server already spawned (PID %d)", s.proc.pid)
	}

	cmd := serverCommand(s.redis)
	// Own process group so termination reaches any children too.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		stdoutPipe.Close()
		return fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		stdoutPipe.Close()
		stderrPipe.Close()
		return fmt.Errorf("failed to start redis-server: %w", err)
	}

	go drainPipe("redis stdout", stdoutPipe)
	go drainPipe("redis stderr", stderrPipe)

	proc := &managedProcess{
		pid:       cmd.Process.Pid,
		startedAt: time.Now(),
		state:     StateRunning,
		done:      make(chan error, 1),
	}
	go func() { proc.done <- cmd.Wait() }()

	s.cmd = cmd
	s.proc = proc
	return nil
}

// Owns reports whether this Supervisor spawned a process this session.
func (s *Supervisor) Owns() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proc != nil
}

// Pid returns the PID of the owned process, or 0 when none exists.
func (s *Supervisor) Pid() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return 0
	}
	return s.proc.pid
}

// State returns the termination state of the owned process, or the
// empty string when nothing was spawned.
func (s *Supervisor) State() TerminationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return ""
	}
	return s.proc.state
}

// Stop terminates the owned process: SIGTERM to the process group,
// a bounded wait for the grace period, then SIGKILL escalation with
// its own bound. It never fails the session; callers log the returned
// error at most. Stop on a Supervisor that spawned nothing, or that
// already terminated its process, is a no-op.
func (s *Supervisor) Stop(ctx context.Context) error {
	s.mu.Lock()
	proc := s.proc
	if proc == nil || proc.state == StateTerminated {
		s.mu.Unlock()
		return nil
	}
	proc.state = StateTerminating
	s.mu.Unlock()

	logging.Info("supervisor", "Stopping redis-server (PID %d)", proc.pid)

	// Graceful first. The negative PID addresses the process group.
	if err := syscall.Kill(-proc.pid, syscall.SIGTERM); err != nil {
		// Process may already be gone; confirm via its exit status.
		logging.Debug("supervisor", "SIGTERM failed for PID %d: %v", proc.pid, err)
	}

	select {
	case waitErr := <-proc.done:
		s.markTerminated(proc)
		logging.Debug("supervisor", "redis-server exited after SIGTERM: %v", waitErr)
		return nil
	case <-time.After(s.timeouts.GracePeriod):
	case <-ctx.Done():
	}

	// Escalate.
	logging.Warn("supervisor", "redis-server (PID %d) did not exit within %s, sending SIGKILL", proc.pid, s.timeouts.GracePeriod)
	if err := syscall.Kill(-proc.pid, syscall.SIGKILL); err != nil {
		s.markTerminated(proc)
		return fmt.Errorf("force-kill of PID %d failed: %w", proc.pid, err)
	}

	select {
	case <-proc.done:
		s.markTerminated(proc)
		return nil
	case <-time.After(s.timeouts.KillWait):
		s.markTerminated(proc)
		return fmt.Errorf("redis-server (PID %d) did not exit within %s of SIGKILL", proc.pid, s.timeouts.KillWait)
	}
}

func (s *Supervisor) markTerminated(proc *managedProcess) {
	s.mu.Lock()
	proc.state = StateTerminated
	s.mu.Unlock()
}
