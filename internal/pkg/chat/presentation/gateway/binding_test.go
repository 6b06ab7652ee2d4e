package gateway

import (
	"testing"

	"github.com/google/uuid"
)

// TestGroupKeys verifies the group key formats stay stable; clients and other
// nodes address broadcasts by these strings.
func TestGroupKeys(t *testing.T) {
	serverID := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	channelID := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	convID := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	want := "chat_11111111-1111-1111-1111-111111111111_22222222-2222-2222-2222-222222222222"
	if got := ChannelGroup(serverID, channelID); got != want {
		t.Errorf("ChannelGroup = %q, want %q", got, want)
	}

	want = "dm_33333333-3333-3333-3333-333333333333"
	if got := DirectGroup(convID); got != want {
		t.Errorf("DirectGroup = %q, want %q", got, want)
	}
}

// TestGroupKeysDistinct verifies equal channel ids under different servers
// map to different groups.
func TestGroupKeysDistinct(t *testing.T) {
	channelID := uuid.New()
	if ChannelGroup(uuid.New(), channelID) == ChannelGroup(uuid.New(), channelID) {
		t.Error("different servers share a group for the same channel id")
	}
}
