package bridgehttp

import (
	"errors"
	"testing"
	"time"
)

func TestBroker_DispatchAckRoundTrip(t *testing.T) {
	b := NewBroker(2 * time.Second)

	// The application side: poll the queue and ack what arrives.
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			cmds := b.Poll("app")
			for _, cmd := range cmds {
				b.Ack("app", CommandAck{CommandID: cmd.ID, Success: true})
			}
			if len(cmds) > 0 {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
	}()

	ack, err := b.DispatchAndWait("app", InteractRequest{Action: ActionClick, ObjectID: "cube"}, 2*time.Second)
	<-done
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !ack.Success {
		t.Error("expected a successful ack")
	}
	if ack.AckedAt.IsZero() {
		t.Error("expected AckedAt to be stamped")
	}
}

func TestBroker_AckTimeout(t *testing.T) {
	b := NewBroker(2 * time.Second)

	_, err := b.DispatchAndWait("app", InteractRequest{Action: ActionClick, ObjectID: "cube"}, 50*time.Millisecond)
	if !errors.Is(err, ErrAckTimeout) {
		t.Fatalf("expected ErrAckTimeout, got %v", err)
	}
	// The timed-out command must be withdrawn from the queue.
	if cmds := b.Poll("app"); len(cmds) != 0 {
		t.Errorf("expected an empty queue after timeout, got %v", cmds)
	}
}

func TestBroker_PollDrainsQueue(t *testing.T) {
	b := NewBroker(2 * time.Second)

	go b.DispatchAndWait("app", InteractRequest{Action: ActionHover, ObjectID: "cube"}, time.Second)

	var cmds []Command
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		cmds = b.Poll("app")
		if len(cmds) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 queued command, got %d", len(cmds))
	}
	if cmds[0].Action != ActionHover || cmds[0].ObjectID != "cube" {
		t.Errorf("unexpected command %+v", cmds[0])
	}
	if cmds[0].ID == "" {
		t.Error("expected a generated command id")
	}
	if extra := b.Poll("app"); len(extra) != 0 {
		t.Errorf("expected the queue drained, got %v", extra)
	}
	b.Ack("app", CommandAck{CommandID: cmds[0].ID, Success: true})
}

func TestBroker_AckUnknownCommand(t *testing.T) {
	b := NewBroker(time.Second)
	if b.Ack("app", CommandAck{CommandID: "nope"}) {
		t.Error("expected ack of an unknown command to be rejected")
	}
	if b.Ack("app", CommandAck{}) {
		t.Error("expected ack without a command id to be rejected")
	}
}

func TestBroker_AckWrongTargetRejected(t *testing.T) {
	b := NewBroker(2 * time.Second)

	errCh := make(chan error, 1)
	go func() {
		_, err := b.DispatchAndWait("app", InteractRequest{Action: ActionSelect, ObjectID: "cube"}, 200*time.Millisecond)
		errCh <- err
	}()

	var cmds []Command
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		cmds = b.Poll("app")
		if len(cmds) > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(cmds) != 1 {
		t.Fatalf("expected 1 command, got %d", len(cmds))
	}
	if b.Ack("other-app", CommandAck{CommandID: cmds[0].ID, Success: true}) {
		t.Error("expected a cross-target ack to be rejected")
	}
	if err := <-errCh; !errors.Is(err, ErrAckTimeout) {
		t.Errorf("expected the dispatch to time out, got %v", err)
	}
}

func TestBroker_ValidatesInput(t *testing.T) {
	b := NewBroker(time.Second)
	if _, err := b.DispatchAndWait("", InteractRequest{Action: ActionClick}, time.Second); err == nil {
		t.Error("expected an error for an empty target")
	}
	if _, err := b.DispatchAndWait("app", InteractRequest{}, time.Second); err == nil {
		t.Error("expected an error for an empty action")
	}
}

func TestBroker_QueuesIsolatedPerTarget(t *testing.T) {
	b := NewBroker(2 * time.Second)

	go b.DispatchAndWait("app-a", InteractRequest{Action: ActionClick, ObjectID: "x"}, time.Second)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cmds := b.Poll("app-b"); len(cmds) != 0 {
			t.Fatalf("expected no commands for another target, got %v", cmds)
		}
		if cmds := b.Poll("app-a"); len(cmds) == 1 {
			b.Ack("app-a", CommandAck{CommandID: cmds[0].ID, Success: true})
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("command never appeared on its own target queue")
}
