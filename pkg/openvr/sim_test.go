package openvr

import "testing"

func TestSimSlots(t *testing.T) {
	sim := NewSim()
	if err := sim.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	sim.Attach(4, DeviceClassGenericTracker, "LHR-AAA")
	if got := sim.DeviceClass(4); got != DeviceClassGenericTracker {
		t.Fatalf("class: %v", got)
	}
	serial, err := sim.Serial(4)
	if err != nil || serial != "LHR-AAA" {
		t.Fatalf("serial: %q, %v", serial, err)
	}

	sim.Detach(4)
	if got := sim.DeviceClass(4); got != DeviceClassInvalid {
		t.Fatalf("detached slot must be invalid, got %v", got)
	}
}

func TestSimPoseSnapshot(t *testing.T) {
	sim := NewSim()
	want := Pose{Position: Vec3{X: 1, Y: 1.2, Z: -0.3}, Rotation: Quat{W: 1}}
	sim.SetPose(7, want, true, true)

	var out [MaxTrackedDeviceCount]TrackedDevicePose
	sim.DevicePoses(UniverseStanding, out[:])
	snap := out[7]
	if !snap.DeviceConnected || !snap.PoseValid {
		t.Fatalf("flags: %+v", snap)
	}
	if got := snap.DeviceToAbsoluteTracking.Pose(); !closeVec(got.Position, want.Position) {
		t.Fatalf("pose: got %+v want %+v", got.Position, want.Position)
	}
	if out[0].DeviceConnected {
		t.Fatalf("untouched slot reported connected")
	}
}

func TestSimSerialFailure(t *testing.T) {
	sim := NewSim()
	sim.Attach(2, DeviceClassGenericTracker, "LHR-AAA")
	sim.FailSerial(2, 4)

	_, err := sim.Serial(2)
	propErr, ok := err.(*PropertyError)
	if !ok || propErr.Code != 4 {
		t.Fatalf("expected PropertyError code 4, got %v", err)
	}
}
