package bridgehttp

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultCommandTimeout = 8 * time.Second

// ErrAckTimeout is returned when the application never acknowledges a
// dispatched command within the timeout.
var ErrAckTimeout = errors.New("command acknowledgement timed out")

type pendingCommand struct {
	target   string
	resultCh chan CommandAck
}

// Broker coordinates harness->application command round trips. Commands
// are queued per target until the application's next poll; each dispatch
// blocks until the matching ack arrives or the timeout fires.
type Broker struct {
	mu             sync.Mutex
	defaultTimeout time.Duration
	queues         map[string][]Command
	pending        map[string]pendingCommand
}

// NewBroker creates a Broker with the given default ack timeout.
func NewBroker(defaultTimeout time.Duration) *Broker {
	if defaultTimeout <= 0 {
		defaultTimeout = defaultCommandTimeout
	}
	return &Broker{
		defaultTimeout: defaultTimeout,
		queues:         make(map[string][]Command),
		pending:        make(map[string]pendingCommand),
	}
}

// DispatchAndWait queues a command for the target and blocks until the
// application acks it or the timeout fires.
func (b *Broker) DispatchAndWait(target string, req InteractRequest, timeout time.Duration) (CommandAck, error) {
	if target == "" {
		return CommandAck{}, errors.New("target cannot be empty")
	}
	if req.Action == "" {
		return CommandAck{}, errors.New("action cannot be empty")
	}
	if timeout <= 0 {
		timeout = b.defaultTimeout
	}

	cmd := Command{
		ID:       uuid.NewString(),
		Action:   req.Action,
		ObjectID: req.ObjectID,
		Args:     req.Args,
	}
	waiter := pendingCommand{
		target:   target,
		resultCh: make(chan CommandAck, 1),
	}

	b.mu.Lock()
	b.queues[target] = append(b.queues[target], cmd)
	b.pending[cmd.ID] = waiter
	b.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ack := <-waiter.resultCh:
		if ack.AckedAt.IsZero() {
			ack.AckedAt = time.Now().UTC()
		}
		return ack, nil
	case <-timer.C:
		b.remove(cmd.ID, target)
		return CommandAck{}, ErrAckTimeout
	}
}

// Poll drains and returns the commands queued for a target.
func (b *Broker) Poll(target string) []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	cmds := b.queues[target]
	delete(b.queues, target)
	return cmds
}

// Ack delivers an application acknowledgement to the waiting dispatcher.
// Returns false when no dispatch is waiting for the command.
func (b *Broker) Ack(target string, ack CommandAck) bool {
	if ack.CommandID == "" {
		return false
	}

	b.mu.Lock()
	waiter, exists := b.pending[ack.CommandID]
	if !exists || waiter.target != target {
		b.mu.Unlock()
		return false
	}
	delete(b.pending, ack.CommandID)
	b.mu.Unlock()

	if ack.AckedAt.IsZero() {
		ack.AckedAt = time.Now().UTC()
	}

	select {
	case waiter.resultCh <- ack:
		return true
	default:
		return false
	}
}

// remove clears a timed-out command from both the pending set and, if the
// application has not polled it yet, the queue.
func (b *Broker) remove(commandID, target string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, commandID)
	queue := b.queues[target]
	for i, cmd := range queue {
		if cmd.ID == commandID {
			b.queues[target] = append(queue[:i], queue[i+1:]...)
			break
		}
	}
}
