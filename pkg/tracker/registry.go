package tracker

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/seagrayinc/vive-trackers/pkg/openvr"
)

// Proxy is the persistent stand-in for one physical tracker. A proxy is
// created the first time its serial number is observed and survives for
// the rest of the session, even if the runtime stops enumerating the
// hardware. The slot index may move between scans; the serial never does.
type Proxy struct {
	DeviceIndex uint32
	Serial      string
	Name        string
	LastPose    openvr.Pose
	Connected   bool
}

// Sink receives admitted proxies and their accepted pose updates. It is
// the boundary toward whatever renders or consumes tracker transforms;
// the registry treats it strictly as an output.
type Sink interface {
	Spawn(p Proxy)
	Move(p Proxy)
}

// Observer is notified after every successful scan with the full current
// proxy list, not only the newly admitted entries.
type Observer func(proxies []Proxy)

// Options configures admission and logging behavior at construction time.
type Options struct {
	// DeclaredOnly admits only serial numbers present in the roster.
	// Undeclared trackers are still enumerated but discarded.
	DeclaredOnly bool
	// LogDetection enables per-slot detection logging during scans.
	LogDetection bool
	// Universe selects the tracking space poses are fetched in.
	Universe openvr.TrackingUniverse
}

// Registry owns the reconciled tracker list. All methods are safe to call
// from multiple goroutines; one mutex guards whole operations so partial
// reconciliation states are never observable.
type Registry struct {
	rt   openvr.System
	opts Options
	log  *slog.Logger

	mu        sync.Mutex
	ready     bool
	declared  map[string]string
	proxies   []*Proxy
	bySerial  map[string]*Proxy
	observers []Observer
	sink      Sink

	// poseBuf is reused across UpdatePoses calls and never handed out.
	poseBuf [openvr.MaxTrackedDeviceCount]openvr.TrackedDevicePose
}

// NewRegistry builds a registry over the given runtime. The runtime is
// not initialized until the first EnsureReady or Scan call.
func NewRegistry(rt openvr.System, opts Options) *Registry {
	return &Registry{
		rt:       rt,
		opts:     opts,
		log:      slog.Default().With(slog.String("component", "tracker")),
		declared: make(map[string]string),
		bySerial: make(map[string]*Proxy),
	}
}

// LoadRoster loads (or reloads) the declared tracker set. On failure the
// declared set is left empty and the error surfaced; the registry remains
// usable and a later reload can recover. Reloading never renames proxies
// that were already admitted.
func (r *Registry) LoadRoster(path string) error {
	declared, err := LoadRosterFile(path)
	r.mu.Lock()
	r.declared = declared
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.log.Info("roster loaded", slog.String("path", path), slog.Int("declared", len(declared)))
	return nil
}

// SetSink installs the render-side collaborator. Must be set before the
// first Scan to receive Spawn calls for every proxy.
func (r *Registry) SetSink(s Sink) {
	r.mu.Lock()
	r.sink = s
	r.mu.Unlock()
}

// Subscribe registers an observer. Observers run synchronously on the
// goroutine that called Scan, after the registry lock is released.
func (r *Registry) Subscribe(fn Observer) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	r.mu.Unlock()
}

// EnsureReady lazily initializes the runtime connection. Idempotent on
// success; after a failure the native error is returned and the next call
// retries.
func (r *Registry) EnsureReady() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureReadyLocked()
}

func (r *Registry) ensureReadyLocked() error {
	if r.ready {
		return nil
	}
	if err := r.rt.Init(); err != nil {
		return err
	}
	r.ready = true
	return nil
}

// Scan walks the runtime's device slot range, admits previously unseen
// generic trackers per the admission rules, and returns the full proxy
// list sorted by name. A scan that finds nothing is not an error: it
// returns an empty list and logs the condition.
func (r *Registry) Scan() ([]Proxy, error) {
	r.mu.Lock()
	if err := r.ensureReadyLocked(); err != nil {
		r.mu.Unlock()
		return nil, err
	}

	var spawned []Proxy
	for idx := uint32(0); idx < openvr.MaxTrackedDeviceCount; idx++ {
		if r.rt.DeviceClass(idx) != openvr.DeviceClassGenericTracker {
			continue
		}
		serial, err := r.rt.Serial(idx)
		if err != nil || serial == "" {
			// Unreadable serial means the slot cannot be identified
			// this scan. Skip it; never abort the scan.
			if r.opts.LogDetection {
				r.log.Warn("tracker slot skipped, serial unreadable",
					slog.Uint64("slot", uint64(idx)), slog.Any("error", err))
			}
			continue
		}

		if p, ok := r.bySerial[serial]; ok {
			// Known hardware; the runtime may have moved it to a new
			// slot since the last scan.
			p.DeviceIndex = idx
			continue
		}

		name, declared := r.declared[serial]
		if !declared {
			if r.opts.DeclaredOnly {
				if r.opts.LogDetection {
					r.log.Info("undeclared tracker discarded", slog.String("serial", serial))
				}
				continue
			}
			name = serial
		}

		p := &Proxy{DeviceIndex: idx, Serial: serial, Name: name}
		r.proxies = append(r.proxies, p)
		r.bySerial[serial] = p
		spawned = append(spawned, *p)
		if r.opts.LogDetection {
			r.log.Info("tracker admitted",
				slog.String("serial", serial),
				slog.String("name", name),
				slog.Uint64("slot", uint64(idx)),
				slog.Bool("declared", declared))
		}
	}

	// Stable sort keeps discovery order for equal names, so repeated
	// scans are deterministic.
	sort.SliceStable(r.proxies, func(i, j int) bool {
		return r.proxies[i].Name < r.proxies[j].Name
	})

	snapshot := r.snapshotLocked()
	sink := r.sink
	observers := make([]Observer, len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	if len(snapshot) == 0 {
		r.log.Warn("no trackers found")
	}
	if sink != nil {
		for _, p := range spawned {
			sink.Spawn(p)
		}
	}
	for _, fn := range observers {
		fn(snapshot)
	}
	return snapshot, nil
}

// UpdatePoses fetches the current pose snapshot and copies it onto every
// proxy whose slot reports connected with a valid pose. Anything else
// leaves the proxy's previous pose and connectivity untouched; a tracker
// that drops out keeps its last known state.
func (r *Registry) UpdatePoses() error {
	r.mu.Lock()
	if err := r.ensureReadyLocked(); err != nil {
		r.mu.Unlock()
		return err
	}

	r.rt.DevicePoses(r.opts.Universe, r.poseBuf[:])

	var moved []Proxy
	for _, p := range r.proxies {
		snap := r.poseBuf[p.DeviceIndex]
		if !snap.DeviceConnected || !snap.PoseValid {
			continue
		}
		p.LastPose = snap.DeviceToAbsoluteTracking.Pose()
		p.Connected = true
		moved = append(moved, *p)
	}
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		for _, p := range moved {
			sink.Move(p)
		}
	}
	return nil
}

// IsConnected reports the last-known connectivity of the first proxy with
// the given display name. Absence, like an uninitialized runtime, is a
// plain false rather than an error.
func (r *Registry) IsConnected(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready {
		return false
	}
	for _, p := range r.proxies {
		if p.Name == name {
			return p.Connected
		}
	}
	return false
}

// Trackers returns a copy of the current proxy list in its sorted order.
func (r *Registry) Trackers() []Proxy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() []Proxy {
	out := make([]Proxy, len(r.proxies))
	for i, p := range r.proxies {
		out[i] = *p
	}
	return out
}
