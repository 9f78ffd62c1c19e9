package transcript

import "testing"

func TestRenderLabelsRoles(t *testing.T) {
	log := NewLog()
	log.Append(RoleUser, "hi")
	log.Append(RoleAgent, "hey")

	if got := log.Render(); got != "User: hi\nAgent: hey" {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestAppendSkipsBlankLines(t *testing.T) {
	log := NewLog()
	log.Append(RoleUser, "   ")
	log.Append(RoleAgent, "")
	log.Append(RoleUser, "hello")

	if got := log.Len(); got != 1 {
		t.Fatalf("expected blank entries skipped, got %d lines", got)
	}
}

func TestTurnIsZeroTrimsWhitespace(t *testing.T) {
	if !(Turn{Role: RoleUser, Text: " \n\t"}).IsZero() {
		t.Fatal("expected whitespace-only turn to be zero")
	}
	if (Turn{Role: RoleUser, Text: "x"}).IsZero() {
		t.Fatal("expected non-empty turn to be non-zero")
	}
}
