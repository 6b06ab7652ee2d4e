package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// TestCanonicalPair verifies both orderings of a pair collapse to the same
// canonical form.
func TestCanonicalPair(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	x1, y1, err := CanonicalPair(a, b)
	if err != nil {
		t.Fatalf("CanonicalPair returned error: %v", err)
	}
	x2, y2, err := CanonicalPair(b, a)
	if err != nil {
		t.Fatalf("CanonicalPair returned error: %v", err)
	}

	if x1 != x2 || y1 != y2 {
		t.Errorf("orderings disagree: (%s,%s) vs (%s,%s)", x1, y1, x2, y2)
	}
	if strings.Compare(x1.String(), y1.String()) > 0 {
		t.Errorf("pair not canonically ordered: %s > %s", x1, y1)
	}
}

func TestCanonicalPairSelf(t *testing.T) {
	id := uuid.New()
	if _, _, err := CanonicalPair(id, id); !errors.Is(err, ErrSelfConversation) {
		t.Errorf("CanonicalPair(self, self) = %v, want ErrSelfConversation", err)
	}
}

func TestOtherParticipant(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	conv := Conversation{Participant1: a, Participant2: b}

	if other, ok := conv.OtherParticipant(a); !ok || other != b {
		t.Errorf("OtherParticipant(a) = %s, %v", other, ok)
	}
	if other, ok := conv.OtherParticipant(b); !ok || other != a {
		t.Errorf("OtherParticipant(b) = %s, %v", other, ok)
	}
	if _, ok := conv.OtherParticipant(uuid.New()); ok {
		t.Error("OtherParticipant accepted a stranger")
	}
}
