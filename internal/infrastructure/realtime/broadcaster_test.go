package realtime

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

type recordingSubscriber struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (s *recordingSubscriber) Deliver(payload []byte) {
	s.mu.Lock()
	s.payloads = append(s.payloads, payload)
	s.mu.Unlock()
}

func (s *recordingSubscriber) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func TestGroupHubFanOut(t *testing.T) {
	hub := NewGroupHub()
	ctx := context.Background()

	a := &recordingSubscriber{}
	b := &recordingSubscriber{}
	if err := hub.Subscribe(ctx, "room", a); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if err := hub.Subscribe(ctx, "room", b); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := hub.Publish(ctx, "room", []byte("hello")); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if a.count() != 1 || b.count() != 1 {
		t.Errorf("delivery counts = %d, %d, want 1, 1", a.count(), b.count())
	}
}

// TestGroupHubIsolation verifies a publish reaches only its own group.
func TestGroupHubIsolation(t *testing.T) {
	hub := NewGroupHub()
	ctx := context.Background()

	a := &recordingSubscriber{}
	b := &recordingSubscriber{}
	_ = hub.Subscribe(ctx, "chat_s1_c1", a)
	_ = hub.Subscribe(ctx, "chat_s1_c2", b)

	_ = hub.Publish(ctx, "chat_s1_c1", []byte("hi"))

	if a.count() != 1 {
		t.Errorf("group member got %d deliveries, want 1", a.count())
	}
	if b.count() != 0 {
		t.Errorf("other group got %d deliveries, want 0", b.count())
	}
}

func TestGroupHubUnsubscribe(t *testing.T) {
	hub := NewGroupHub()
	ctx := context.Background()

	sub := &recordingSubscriber{}
	_ = hub.Subscribe(ctx, "room", sub)
	_ = hub.Unsubscribe(ctx, "room", sub)
	_ = hub.Publish(ctx, "room", []byte("gone"))

	if sub.count() != 0 {
		t.Errorf("unsubscribed member got %d deliveries", sub.count())
	}
	if hub.MemberCount("room") != 0 {
		t.Errorf("MemberCount = %d after last unsubscribe", hub.MemberCount("room"))
	}

	// Repeating and removing strangers must both be no-ops.
	if err := hub.Unsubscribe(ctx, "room", sub); err != nil {
		t.Errorf("double unsubscribe: %v", err)
	}
	if err := hub.Unsubscribe(ctx, "absent", &recordingSubscriber{}); err != nil {
		t.Errorf("unsubscribe from absent group: %v", err)
	}
}

func TestGroupHubUnsubscribeAll(t *testing.T) {
	hub := NewGroupHub()
	ctx := context.Background()

	sub := &recordingSubscriber{}
	_ = hub.Subscribe(ctx, "g1", sub)
	_ = hub.Subscribe(ctx, "g2", sub)

	hub.UnsubscribeAll(sub)

	_ = hub.Publish(ctx, "g1", []byte("x"))
	_ = hub.Publish(ctx, "g2", []byte("x"))
	if sub.count() != 0 {
		t.Errorf("got %d deliveries after UnsubscribeAll", sub.count())
	}
}

// TestGroupHubMembershipTransitions verifies join and leave report only real
// membership changes. The Redis relay opens on the first member and closes on
// the last, so a stranger's leave or a duplicate join must read as no change.
func TestGroupHubMembershipTransitions(t *testing.T) {
	hub := NewGroupHub()
	a := &recordingSubscriber{}
	b := &recordingSubscriber{}

	if added, first := hub.join("room", a); !added || !first {
		t.Errorf("first join = (%v, %v), want (true, true)", added, first)
	}
	if added, first := hub.join("room", a); added || first {
		t.Errorf("duplicate join = (%v, %v), want (false, false)", added, first)
	}
	if added, first := hub.join("room", b); !added || first {
		t.Errorf("second member join = (%v, %v), want (true, false)", added, first)
	}

	if removed, empty := hub.leave("room", &recordingSubscriber{}); removed || empty {
		t.Errorf("stranger leave = (%v, %v), want (false, false)", removed, empty)
	}
	if removed, empty := hub.leave("room", a); !removed || empty {
		t.Errorf("leave with members remaining = (%v, %v), want (true, false)", removed, empty)
	}
	if removed, empty := hub.leave("room", a); removed || empty {
		t.Errorf("repeated leave = (%v, %v), want (false, false)", removed, empty)
	}
	if removed, empty := hub.leave("room", b); !removed || !empty {
		t.Errorf("last leave = (%v, %v), want (true, true)", removed, empty)
	}
	if hub.MemberCount("room") != 0 {
		t.Errorf("MemberCount = %d after last leave", hub.MemberCount("room"))
	}
}

// TestGroupHubConcurrent exercises mixed subscribe/publish/unsubscribe under
// the race detector.
func TestGroupHubConcurrent(t *testing.T) {
	hub := NewGroupHub()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			group := fmt.Sprintf("room_%d", n%4)
			sub := &recordingSubscriber{}
			for j := 0; j < 50; j++ {
				_ = hub.Subscribe(ctx, group, sub)
				_ = hub.Publish(ctx, group, []byte("m"))
				_ = hub.Unsubscribe(ctx, group, sub)
			}
		}(i)
	}
	wg.Wait()
}
