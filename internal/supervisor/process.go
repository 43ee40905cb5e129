package supervisor

import (
	"bufio"
	"io"
	"time"

	"zenctl/pkg/logging"
)

// TerminationState tracks where a managed process is in its lifetime.
// Transitions only move forward: Running -> Terminating -> Terminated.
type TerminationState string

const (
	StateRunning     TerminationState = "Running"
	StateTerminating TerminationState = "Terminating"
	StateTerminated  TerminationState = "Terminated"
)

// managedProcess is the handle for the one child process a Supervisor
// may own. The handle stays with whoever spawned it; nothing else
// signals the child.
type managedProcess struct {
	pid       int
	startedAt time.Time
	state     TerminationState

	// done receives the cmd.Wait result exactly once.
	done chan error
}

// drainPipe forwards child output into debug logging line by line so
// the server's chatter never reaches the user's terminal.
func drainPipe(label string, pipe io.ReadCloser) {
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		logging.Debug("supervisor", "[%s] %s", label, scanner.Text())
	}
}
