package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestSpinnerModel_View(t *testing.T) {
	t.Parallel()

	m := newSpinnerModel("Fetching 3 repositories")
	view := ansi.Strip(m.View().Content)
	if !strings.HasSuffix(view, " Fetching 3 repositories") {
		t.Errorf("View() = %q", view)
	}

	if got := newSpinnerModel("").View().Content; got != "" {
		t.Errorf("empty message View() = %q, want empty", got)
	}
}

func TestSpinner_WriteWhenStopped(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner("working")
	s.fallback = &buf

	n, err := s.Write([]byte("warning: api: boom\n"))
	if err != nil || n != len("warning: api: boom\n") {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if buf.String() != "warning: api: boom\n" {
		t.Errorf("fallback got %q", buf.String())
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	t.Parallel()

	NewSpinner("idle").Stop()
}
