package core

// POStatus is a purchase order lifecycle state.
type POStatus string

const (
	PODraft     POStatus = "Draft"
	POApproved  POStatus = "Approved"
	POSent      POStatus = "Sent"
	POReceived  POStatus = "Received"
	POClosed    POStatus = "Closed"
	POCancelled POStatus = "Cancelled"
)

// poTransitions is the full transition table. Closed and Cancelled are
// terminal — they have no outgoing edges. Conversion of an Approved order
// is the single exception that moves Approved directly to Closed, handled
// by ConvertToPurchase rather than Transition.
var poTransitions = map[POStatus][]POStatus{
	PODraft:     {POApproved, POCancelled},
	POApproved:  {POSent, POCancelled},
	POSent:      {POReceived, POCancelled},
	POReceived:  {POClosed, POCancelled},
	POClosed:    {},
	POCancelled: {},
}

// ValidPOStatus reports whether s is a known purchase order status.
func ValidPOStatus(s POStatus) bool {
	_, ok := poTransitions[s]
	return ok
}

// CanTransition reports whether a purchase order in state from may move
// to state to.
func CanTransition(from, to POStatus) bool {
	for _, next := range poTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// poTimestampColumn maps a target status to the workflow timestamp column
// stamped on that transition. Draft and Cancelled stamp nothing.
func poTimestampColumn(to POStatus) string {
	switch to {
	case POApproved:
		return "approved_at"
	case POSent:
		return "sent_at"
	case POReceived:
		return "received_at"
	case POClosed:
		return "closed_at"
	}
	return ""
}
