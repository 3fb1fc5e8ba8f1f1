package enum

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	OperatorOwner = "OWNER"
	OperatorStaff = "STAFF"
)

// ── Group B: Configurable labels (no DB constraint) ──

const (
	EventSourcePOS       = "pos"
	EventSourceFloor     = "floor"
	EventSourceOrderList = "order_list"
	EventSourceKitchen   = "kitchen"
	EventSourceAPI       = "api"
)

const (
	ActionCreated      = "created"
	ActionItemsAdded   = "items_added"
	ActionConfirmed    = "confirmed"
	ActionPreconto     = "preconto"
	ActionScontrino    = "scontrino"
	ActionCancelled    = "cancelled"
	ActionTableChanged = "table_changed"
	ActionTableRemoved = "table_removed"
)

// IsEventSource reports whether s names a known surface.
func IsEventSource(s string) bool {
	switch s {
	case EventSourcePOS, EventSourceFloor, EventSourceOrderList, EventSourceKitchen, EventSourceAPI:
		return true
	}
	return false
}
