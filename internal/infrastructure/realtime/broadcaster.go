package realtime

import (
	"context"
	"sync"
)

// Subscriber is a handle that receives payloads published to groups it is
// subscribed to. Deliver must not block indefinitely.
type Subscriber interface {
	Deliver(payload []byte)
}

// Broadcaster is a named-group pub/sub fan-out. Publish delivers payload to
// every subscriber of the group at the moment of publish; a group with zero
// subscribers is a silent no-op. A subscriber may belong to many groups and
// all methods are safe for concurrent use from arbitrary sessions.
type Broadcaster interface {
	Subscribe(ctx context.Context, group string, sub Subscriber) error
	Unsubscribe(ctx context.Context, group string, sub Subscriber) error
	Publish(ctx context.Context, group string, payload []byte) error
}

// GroupHub is the in-process Broadcaster: a mutex-guarded registry of groups.
// A single-node deployment uses it directly; RedisBroadcaster layers it under
// a networked transport for multi-node fan-out.
type GroupHub struct {
	mu        sync.RWMutex
	groups    map[string]map[Subscriber]struct{}
	subGroups map[Subscriber]map[string]struct{}
}

// NewGroupHub constructs an initialized GroupHub.
func NewGroupHub() *GroupHub {
	return &GroupHub{
		groups:    make(map[string]map[Subscriber]struct{}),
		subGroups: make(map[Subscriber]map[string]struct{}),
	}
}

var _ Broadcaster = (*GroupHub)(nil)

// Subscribe adds sub to the group, creating the group if needed. Subscribing
// twice is a no-op.
func (h *GroupHub) Subscribe(_ context.Context, group string, sub Subscriber) error {
	h.join(group, sub)
	return nil
}

// Unsubscribe removes sub from the group. Removing an absent subscriber is a
// no-op, so cleanup paths may call it unconditionally.
func (h *GroupHub) Unsubscribe(_ context.Context, group string, sub Subscriber) error {
	h.leave(group, sub)
	return nil
}

// UnsubscribeAll removes sub from every group it joined.
func (h *GroupHub) UnsubscribeAll(sub Subscriber) {
	h.mu.Lock()
	for group := range h.subGroups[sub] {
		h.leaveLocked(group, sub)
	}
	h.mu.Unlock()
}

// join adds sub to the group. It reports whether the membership is new and
// whether sub is now the group's only member, so a layered transport can tie
// per-group relay lifecycle to actual transitions instead of call counts.
func (h *GroupHub) join(group string, sub Subscriber) (added, first bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.groups[group]
	if members == nil {
		members = make(map[Subscriber]struct{})
		h.groups[group] = members
	}
	if _, ok := members[sub]; ok {
		return false, false
	}
	members[sub] = struct{}{}

	memberships := h.subGroups[sub]
	if memberships == nil {
		memberships = make(map[string]struct{})
		h.subGroups[sub] = memberships
	}
	memberships[group] = struct{}{}
	return true, len(members) == 1
}

// leave removes sub from the group. It reports whether sub was actually a
// member and whether the group is now empty.
func (h *GroupHub) leave(group string, sub Subscriber) (removed, empty bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.leaveLocked(group, sub)
}

// Publish delivers payload to all current members of the group. Delivery
// happens outside the lock so a slow subscriber cannot stall Subscribe.
func (h *GroupHub) Publish(_ context.Context, group string, payload []byte) error {
	h.mu.RLock()
	members := h.groups[group]
	handles := make([]Subscriber, 0, len(members))
	for sub := range members {
		handles = append(handles, sub)
	}
	h.mu.RUnlock()

	for _, sub := range handles {
		sub.Deliver(payload)
	}
	return nil
}

// MemberCount reports the current number of subscribers in a group.
func (h *GroupHub) MemberCount(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

func (h *GroupHub) leaveLocked(group string, sub Subscriber) (removed, empty bool) {
	members := h.groups[group]
	if members == nil {
		return false, false
	}
	if _, ok := members[sub]; !ok {
		return false, false
	}
	delete(members, sub)
	if memberships, ok := h.subGroups[sub]; ok {
		delete(memberships, group)
		if len(memberships) == 0 {
			delete(h.subGroups, sub)
		}
	}
	if len(members) == 0 {
		delete(h.groups, group)
		return true, true
	}
	return true, false
}
