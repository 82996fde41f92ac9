package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeContainerFull, "sack is full")
	if !stderrors.Is(err, New(CodeContainerFull, "other message")) {
		t.Fatalf("expected errors.Is to match on code")
	}
	if stderrors.Is(err, New(CodeNotContained, "sack is full")) {
		t.Fatalf("expected different codes not to match")
	}
}

func TestCodeOfWalksWrappedChain(t *testing.T) {
	inner := New(CodeRetrievalDenied, "not in the same party")
	wrapped := fmt.Errorf("retrieve: %w", inner)
	if got := CodeOf(wrapped); got != CodeRetrievalDenied {
		t.Fatalf("CodeOf=%q want=%q", got, CodeRetrievalDenied)
	}
	if got := CodeOf(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("CodeOf(plain)=%q want=%q", got, CodeUnknown)
	}
	if got := CodeOf(nil); got != "" {
		t.Fatalf("CodeOf(nil)=%q want empty", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("position lookup failed")
	err := Wrap(CodeRetrievalDenied, "cannot evaluate restriction", cause)
	if !stderrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
	if err.Error() != "cannot evaluate restriction: position lookup failed" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
