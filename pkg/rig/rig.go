// Package rig is the render-side collaborator for the tracker registry:
// it keeps one object per admitted tracker, parented under a configured
// origin transform, and re-expresses every accepted pose in world space.
package rig

import (
	"sync"

	"github.com/seagrayinc/vive-trackers/pkg/openvr"
	"github.com/seagrayinc/vive-trackers/pkg/tracker"
)

// Object is one tracker's visual/logical proxy under the origin.
type Object struct {
	Serial string
	Name   string
	// Local is the tracker's pose in tracking space, as delivered.
	Local openvr.Pose
	// World is Local composed with the rig origin.
	World openvr.Pose
}

// Rig implements tracker.Sink. The origin transform is the calibration
// anchor all objects are expressed against.
type Rig struct {
	mu      sync.Mutex
	origin  openvr.Pose
	objects map[string]*Object
}

var _ tracker.Sink = (*Rig)(nil)

func New(origin openvr.Pose) *Rig {
	if origin.Rotation == (openvr.Quat{}) {
		origin.Rotation = openvr.Quat{W: 1}
	}
	return &Rig{origin: origin, objects: make(map[string]*Object)}
}

// SetOrigin moves the calibration anchor and recomputes every object's
// world pose against it.
func (r *Rig) SetOrigin(origin openvr.Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.origin = origin
	for _, o := range r.objects {
		o.World = compose(r.origin, o.Local)
	}
}

// Spawn creates the object for a newly admitted tracker. Spawning the
// same serial twice is a no-op.
func (r *Rig) Spawn(p tracker.Proxy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.objects[p.Serial]; ok {
		return
	}
	r.objects[p.Serial] = &Object{
		Serial: p.Serial,
		Name:   p.Name,
		Local:  openvr.Identity(),
		World:  compose(r.origin, openvr.Identity()),
	}
}

// Move pushes an accepted pose onto the tracker's object.
func (r *Rig) Move(p tracker.Proxy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[p.Serial]
	if !ok {
		return
	}
	o.Local = p.LastPose
	o.World = compose(r.origin, p.LastPose)
}

// Object looks up a tracker's object by serial number.
func (r *Rig) Object(serial string) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[serial]
	if !ok {
		return Object{}, false
	}
	return *o, true
}

func compose(origin, local openvr.Pose) openvr.Pose {
	moved := origin.Rotation.Rotate(local.Position)
	return openvr.Pose{
		Position: openvr.Vec3{
			X: origin.Position.X + moved.X,
			Y: origin.Position.Y + moved.Y,
			Z: origin.Position.Z + moved.Z,
		},
		Rotation: origin.Rotation.Mul(local.Rotation),
	}
}
