package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventhub/registration-system/internal/core/ports"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.TicketNotification
	done chan struct{}
	want int
}

func newRecordingNotifier(want int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}), want: want}
}

func (n *recordingNotifier) Send(_ context.Context, notification ports.TicketNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	if len(n.sent) == n.want {
		close(n.done)
	}
	return nil
}

func (n *recordingNotifier) delivered() []ports.TicketNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.TicketNotification(nil), n.sent...)
}

func waitDelivered(t *testing.T, n *recordingNotifier) {
	t.Helper()
	select {
	case <-n.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("notifications not delivered in time")
	}
}

func TestDispatcher_DeliversAllNotifications(t *testing.T) {
	const count = 50
	notifier := newRecordingNotifier(count)
	d := NewDispatcher(4, notifier, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < count; i++ {
		d.Enqueue(ports.TicketNotification{TicketID: fmt.Sprintf("tic-%d", i)})
	}
	waitDelivered(t, notifier)

	seen := make(map[string]bool)
	for _, n := range notifier.delivered() {
		seen[n.TicketID] = true
	}
	if len(seen) != count {
		t.Fatalf("delivered %d distinct tickets, want %d", len(seen), count)
	}
}

func TestDispatcher_SameTicketSameShard(t *testing.T) {
	d := NewDispatcher(8, nil, zerolog.Nop())

	for _, id := range []string{"tic-a", "tic-b", "tic-c"} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("ticket %q moved shard: %d then %d", id, first, got)
			}
		}
	}
}

func TestDispatcher_EnqueueNeverBlocksWhenFull(t *testing.T) {
	// Workers not started: buffers fill up and overflow must be dropped,
	// not block the caller.
	d := NewDispatcher(1, nil, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(ports.TicketNotification{TicketID: "tic-1"})
		}
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatalf("Enqueue blocked on a full queue")
	}
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	notifier := newRecordingNotifier(1)
	d := NewDispatcher(2, notifier, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(ports.TicketNotification{TicketID: "tic-1"})
	waitDelivered(t, notifier)
	cancel()

	// Give workers a moment to observe cancellation; later enqueues sit in
	// the buffer and are never delivered.
	time.Sleep(50 * time.Millisecond)
	d.Enqueue(ports.TicketNotification{TicketID: "tic-2"})
	time.Sleep(50 * time.Millisecond)

	if got := len(notifier.delivered()); got != 1 {
		t.Fatalf("delivered %d notifications after cancel, want 1", got)
	}
}
