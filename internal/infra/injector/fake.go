package injector

import "github.com/lumenhost/standbyd/internal/domain"

// Fake is a fully scriptable domain.Injector for tests, mirroring the
// original_source test suite's MyInjector: every field is public and
// directly settable, and ElapsedRealtime/CurrentTimeMillis simply
// return whatever the test last assigned rather than tracking real
// time. Display-change notification is manual via FireDisplayChanged,
// matching the real injector calling back synchronously.
type Fake struct {
	Elapsed   uint64
	WallClock uint64

	Charging       bool
	AppIdleEnabled bool

	PowerSaveExceptIdle map[string]bool
	Ephemeral           map[string]bool
	BoundWidget         map[string]bool
	Scorer              string

	DisplayOn bool
	listeners []func()

	Users    []int
	Settings string
	DataDir  string

	NotedEvents []NotedEvent
}

// NotedEvent records a call to NoteEvent for assertions.
type NotedEvent struct {
	Kind domain.EventKind
	Pkg  string
	UID  int
}

// NewFake returns a Fake with the same conservative defaults as Host.
func NewFake() *Fake {
	return &Fake{
		AppIdleEnabled:      true,
		DisplayOn:           true,
		Users:               []int{0},
		PowerSaveExceptIdle: make(map[string]bool),
		Ephemeral:           make(map[string]bool),
		BoundWidget:         make(map[string]bool),
	}
}

func (f *Fake) ElapsedRealtime() uint64   { return f.Elapsed }
func (f *Fake) CurrentTimeMillis() uint64 { return f.WallClock }
func (f *Fake) IsCharging() bool          { return f.Charging }
func (f *Fake) IsAppIdleEnabled() bool    { return f.AppIdleEnabled }

func (f *Fake) IsPowerSaveWhitelistExceptIdle(pkg string) bool { return f.PowerSaveExceptIdle[pkg] }
func (f *Fake) IsPackageEphemeral(user int, pkg string) bool   { return f.Ephemeral[pkg] }
func (f *Fake) IsBoundWidgetPackage(pkg string, user int) bool { return f.BoundWidget[pkg] }
func (f *Fake) ActiveNetworkScorer() string                    { return f.Scorer }

func (f *Fake) IsDefaultDisplayOn() bool { return f.DisplayOn }

func (f *Fake) RegisterDisplayListener(cb func()) {
	f.listeners = append(f.listeners, cb)
}

// FireDisplayChanged flips DisplayOn and synchronously notifies every
// registered listener, the same contract the real injector promises.
func (f *Fake) FireDisplayChanged(on bool) {
	f.DisplayOn = on
	for _, cb := range f.listeners {
		cb()
	}
}

func (f *Fake) RunningUserIDs() []int    { return f.Users }
func (f *Fake) AppIdleSettings() string  { return f.Settings }

func (f *Fake) NoteEvent(kind domain.EventKind, pkg string, uid int) {
	f.NotedEvents = append(f.NotedEvents, NotedEvent{Kind: kind, Pkg: pkg, UID: uid})
}

func (f *Fake) DataSystemDirectory() string { return f.DataDir }

var _ domain.Injector = (*Fake)(nil)
