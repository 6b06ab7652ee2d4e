package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	servers "github.com/Br34th7aking/pingo/internal/pkg/servers/application/domain"
)

func TestValidateContent(t *testing.T) {
	got, err := ValidateContent("  hello  ")
	if err != nil {
		t.Fatalf("ValidateContent returned error: %v", err)
	}
	if got != "hello" {
		t.Errorf("ValidateContent did not trim: %q", got)
	}
}

func TestValidateContentEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		if _, err := ValidateContent(input); !errors.Is(err, ErrEmptyContent) {
			t.Errorf("ValidateContent(%q) = %v, want ErrEmptyContent", input, err)
		}
	}
}

func TestValidateContentTruncates(t *testing.T) {
	long := strings.Repeat("a", MaxContentLength+100)
	got, err := ValidateContent(long)
	if err != nil {
		t.Fatalf("ValidateContent returned error: %v", err)
	}
	if len(got) != MaxContentLength {
		t.Errorf("content length = %d, want %d", len(got), MaxContentLength)
	}
}

// TestVisibleContentRedaction verifies a tombstoned message reads as the
// placeholder while the stored content survives untouched.
func TestVisibleContentRedaction(t *testing.T) {
	msg := Message{Content: "secret", IsDeleted: true}
	if got := msg.VisibleContent(); got != DeletedPlaceholder {
		t.Errorf("VisibleContent() = %q, want %q", got, DeletedPlaceholder)
	}
	if msg.Content != "secret" {
		t.Errorf("stored content mutated: %q", msg.Content)
	}

	msg.IsDeleted = false
	if got := msg.VisibleContent(); got != "secret" {
		t.Errorf("VisibleContent() = %q, want stored content", got)
	}
}

func TestCanModify(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	msg := Message{AuthorID: &author}

	if !msg.CanModify(author, servers.RoleMember) {
		t.Error("author cannot modify their own message")
	}
	if msg.CanModify(other, servers.RoleMember) {
		t.Error("plain member can modify someone else's message")
	}
	if !msg.CanModify(other, servers.RoleModerator) {
		t.Error("moderator cannot moderate someone else's message")
	}

	orphan := Message{AuthorID: nil}
	if orphan.CanModify(other, servers.RoleMember) {
		t.Error("member can modify an authorless message")
	}
	if !orphan.CanModify(other, servers.RoleOwner) {
		t.Error("owner cannot moderate an authorless message")
	}
}

// TestMessagePayloadRedacts verifies the wire projection applies the
// tombstone.
func TestMessagePayloadRedacts(t *testing.T) {
	msg := Message{ID: uuid.New(), Content: "secret", IsDeleted: true}
	payload := msg.Payload(nil)
	if payload.Content != DeletedPlaceholder {
		t.Errorf("payload content = %q, want placeholder", payload.Content)
	}
	if !payload.IsDeleted {
		t.Error("payload lost the deletion flag")
	}
	if payload.Author != nil {
		t.Error("payload invented an author")
	}
}
