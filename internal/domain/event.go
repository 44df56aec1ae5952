package domain

// EventKind is the type of usage event reported to the engine (C7).
type EventKind int

const (
	// UserInteraction is an explicit user interaction with the app
	// (launch, foreground, notable engagement).
	UserInteraction EventKind = iota
	// NotificationSeen is the user viewing a notification from the app.
	NotificationSeen
	// Other covers every event kind the policy does not act on —
	// they're still recorded by the injector for observability
	// (§6 noteEvent) but never change a bucket.
	Other
)

// String returns the event kind's canonical name.
func (k EventKind) String() string {
	switch k {
	case UserInteraction:
		return "user_interaction"
	case NotificationSeen:
		return "notification_seen"
	default:
		return "other"
	}
}

// Event is a usage event reported via ReportEvent.
type Event struct {
	Kind    EventKind
	Package string
}

// BootPhase models the lifecycle milestones the engine cares about.
type BootPhase int

const (
	BootPhaseUnknown BootPhase = iota
	BootPhaseSystemServicesReady
	BootPhaseCompleted
)
