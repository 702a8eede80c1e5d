package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/texelcore/engine/internal/board"
)

func TestCommunicatorStopAndReset(t *testing.T) {
	var flag atomic.Bool
	c := NewCommunicator(&flag)

	if c.Stopped() {
		t.Fatalf("expected not stopped initially")
	}
	c.Stop()
	if !flag.Load() || !c.Stopped() {
		t.Fatalf("expected Stop to set the shared flag")
	}
	c.Reset()
	if c.Stopped() {
		t.Fatalf("expected Reset to clear the shared flag")
	}
}

func TestCommunicatorCommandsAndBestMove(t *testing.T) {
	var flag atomic.Bool
	c := NewCommunicator(&flag)

	c.Send(Command{Kind: CmdStart})
	select {
	case cmd := <-c.Commands():
		if cmd.Kind != CmdStart {
			t.Fatalf("expected CmdStart, got %v", cmd.Kind)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for command")
	}

	c.PublishBestMove(WorkerResult{Move: board.NoMove, Depth: 3})
	select {
	case r := <-c.BestMoves():
		if r.Depth != 3 {
			t.Fatalf("expected depth 3, got %d", r.Depth)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for best-move update")
	}

	c.Close()
	if _, ok := <-c.Commands(); ok {
		t.Fatalf("expected closed command channel")
	}
}

func TestClusterTTSingleOwnership(t *testing.T) {
	tt := NewTranspositionTable(1)
	cluster := NewClusterTT(tt)

	if !cluster.Claim() {
		t.Fatalf("expected first Claim to succeed")
	}
	if cluster.Claim() {
		t.Fatalf("expected second Claim to fail while owned")
	}
	cluster.Release()
	if !cluster.Claim() {
		t.Fatalf("expected Claim to succeed again after Release")
	}
}

func TestOrderedGateRoundRobin(t *testing.T) {
	g := NewOrderedGate(3)
	g.Enable()

	order := make([]int, 0, 6)
	done := make(chan struct{})

	for id := 0; id < 3; id++ {
		id := id
		go func() {
			for round := 0; round < 2; round++ {
				g.Wait(id)
				order = append(order, id)
				g.Done()
				done <- struct{}{}
			}
		}()
	}

	for i := 0; i < 6; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for ordered turn %d", i)
		}
	}

	for i, id := range order {
		if id != i%3 {
			t.Fatalf("expected round-robin order, got %v", order)
		}
	}
}

func TestOrderedGateDisableReleasesWaiters(t *testing.T) {
	g := NewOrderedGate(2)
	g.Enable()

	released := make(chan struct{})
	go func() {
		g.Wait(1) // worker 1 waits since turn starts at 0
		close(released)
	}()

	time.Sleep(20 * time.Millisecond)
	g.Disable()

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatalf("expected Disable to release a waiting worker")
	}
}
