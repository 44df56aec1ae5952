package domain

// Injector is the narrow boundary between the engine and everything
// external to it: clocks, device state, the OS package catalog, and
// the exemption queries (whitelist/widget/network-scorer). The engine
// depends only on this interface so it can run against a scripted fake
// in tests and a real host implementation in production (§6).
type Injector interface {
	// ElapsedRealtime returns monotonic device-uptime milliseconds.
	// Pauses during deep device idle.
	ElapsedRealtime() uint64
	// CurrentTimeMillis returns wall-clock milliseconds.
	CurrentTimeMillis() uint64

	// IsCharging reports the current charger state.
	IsCharging() bool
	// IsAppIdleEnabled reports the master on/off switch for idle
	// enforcement.
	IsAppIdleEnabled() bool

	// IsPowerSaveWhitelistExceptIdle reports whether pkg is exempted
	// from idle filtering via the power-save whitelist. RPC failure is
	// treated as "not whitelisted" by the caller, never propagated.
	IsPowerSaveWhitelistExceptIdle(pkg string) bool
	// IsPackageEphemeral reports whether pkg is an ephemeral
	// (instant) app for user.
	IsPackageEphemeral(user int, pkg string) bool
	// IsBoundWidgetPackage reports whether pkg has a bound home-screen
	// widget for user.
	IsBoundWidgetPackage(pkg string, user int) bool
	// ActiveNetworkScorer returns the package name of the active
	// network scorer, or "" if none.
	ActiveNetworkScorer() string

	// IsDefaultDisplayOn reports whether the default display is
	// currently on; drives the screen-on clock.
	IsDefaultDisplayOn() bool
	// RegisterDisplayListener registers cb to be called whenever the
	// display changes state. The injector calls cb synchronously from
	// whatever thread detects the change; the engine is responsible for
	// hopping back onto its own task queue.
	RegisterDisplayListener(cb func())

	// RunningUserIDs enumerates the users currently running on-device.
	RunningUserIDs() []int

	// AppIdleSettings returns the raw threshold-settings string (§4.1).
	AppIdleSettings() string

	// NoteEvent is an observability sink; failures are ignored by the
	// caller.
	NoteEvent(kind EventKind, pkg string, uid int)

	// DataSystemDirectory returns the root path for persistence. Opaque
	// to the engine, which never calls it; the daemon opens the sqlite
	// checkpoint store from its own configured data directory.
	DataSystemDirectory() string
}
