package rig

import (
	"math"
	"testing"

	"github.com/seagrayinc/vive-trackers/pkg/openvr"
	"github.com/seagrayinc/vive-trackers/pkg/tracker"
)

const eps = 1e-5

func closeVec(a, b openvr.Vec3) bool {
	return math.Abs(float64(a.X-b.X)) < eps &&
		math.Abs(float64(a.Y-b.Y)) < eps &&
		math.Abs(float64(a.Z-b.Z)) < eps
}

func TestSpawnAndMoveComposeWithOrigin(t *testing.T) {
	origin := openvr.Pose{Position: openvr.Vec3{X: 1, Y: 2, Z: 3}, Rotation: openvr.Quat{W: 1}}
	r := New(origin)

	p := tracker.Proxy{Serial: "LHR-AAA", Name: "hip"}
	r.Spawn(p)

	p.LastPose = openvr.Pose{Position: openvr.Vec3{X: 0.5}, Rotation: openvr.Quat{W: 1}}
	r.Move(p)

	o, ok := r.Object("LHR-AAA")
	if !ok {
		t.Fatalf("object missing")
	}
	if !closeVec(o.World.Position, openvr.Vec3{X: 1.5, Y: 2, Z: 3}) {
		t.Fatalf("world pose: %+v", o.World.Position)
	}
}

func TestOriginRotationAppliesToObjects(t *testing.T) {
	s := float32(math.Sqrt2 / 2)
	origin := openvr.Pose{Rotation: openvr.Quat{W: s, Y: s}} // 90 degree yaw
	r := New(origin)

	p := tracker.Proxy{Serial: "LHR-AAA", Name: "hip"}
	r.Spawn(p)
	p.LastPose = openvr.Pose{Position: openvr.Vec3{X: 1}, Rotation: openvr.Quat{W: 1}}
	r.Move(p)

	o, _ := r.Object("LHR-AAA")
	if !closeVec(o.World.Position, openvr.Vec3{Z: -1}) {
		t.Fatalf("rotated world pose: %+v", o.World.Position)
	}
}

func TestSpawnIsIdempotent(t *testing.T) {
	r := New(openvr.Identity())
	p := tracker.Proxy{Serial: "LHR-AAA", Name: "hip"}
	r.Spawn(p)
	p.LastPose = openvr.Pose{Position: openvr.Vec3{X: 2}, Rotation: openvr.Quat{W: 1}}
	r.Move(p)

	// A second spawn for the same serial must not reset the object.
	r.Spawn(tracker.Proxy{Serial: "LHR-AAA", Name: "hip"})
	o, _ := r.Object("LHR-AAA")
	if !closeVec(o.Local.Position, openvr.Vec3{X: 2}) {
		t.Fatalf("respawn reset the object: %+v", o.Local.Position)
	}
}

func TestSetOriginRecomputesWorldPoses(t *testing.T) {
	r := New(openvr.Identity())
	p := tracker.Proxy{Serial: "LHR-AAA", Name: "hip"}
	r.Spawn(p)
	p.LastPose = openvr.Pose{Position: openvr.Vec3{X: 1}, Rotation: openvr.Quat{W: 1}}
	r.Move(p)

	r.SetOrigin(openvr.Pose{Position: openvr.Vec3{Y: 5}, Rotation: openvr.Quat{W: 1}})
	o, _ := r.Object("LHR-AAA")
	if !closeVec(o.World.Position, openvr.Vec3{X: 1, Y: 5}) {
		t.Fatalf("world pose after origin move: %+v", o.World.Position)
	}
}

func TestMoveUnknownSerialIsNoop(t *testing.T) {
	r := New(openvr.Identity())
	r.Move(tracker.Proxy{Serial: "LHR-ZZZ"})
	if _, ok := r.Object("LHR-ZZZ"); ok {
		t.Fatalf("move must not create objects")
	}
}
