package core_test

import (
	"testing"

	"gst-engine/internal/core"
)

func TestCanTransition(t *testing.T) {
	allowed := map[core.POStatus][]core.POStatus{
		core.PODraft:    {core.POApproved, core.POCancelled},
		core.POApproved: {core.POSent, core.POCancelled},
		core.POSent:     {core.POReceived, core.POCancelled},
		core.POReceived: {core.POClosed, core.POCancelled},
	}

	all := []core.POStatus{
		core.PODraft, core.POApproved, core.POSent,
		core.POReceived, core.POClosed, core.POCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			if got := core.CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []core.POStatus{
		core.PODraft, core.POApproved, core.POSent,
		core.POReceived, core.POClosed, core.POCancelled,
	}
	for _, terminal := range []core.POStatus{core.POClosed, core.POCancelled} {
		for _, to := range all {
			if core.CanTransition(terminal, to) {
				t.Errorf("terminal state %s can transition to %s", terminal, to)
			}
		}
	}
}

func TestValidPOStatus(t *testing.T) {
	for _, s := range []core.POStatus{
		core.PODraft, core.POApproved, core.POSent,
		core.POReceived, core.POClosed, core.POCancelled,
	} {
		if !core.ValidPOStatus(s) {
			t.Errorf("ValidPOStatus(%s) = false", s)
		}
	}
	if core.ValidPOStatus("Shipped") {
		t.Error("unknown status accepted")
	}
	if core.ValidPOStatus("draft") {
		t.Error("status check should be case-sensitive")
	}
}
