package openvr

import "math"

// HmdMatrix34 is the runtime's row-major 3x4 transform: a 3x3 rotation
// with the translation in the fourth column (HmdMatrix34_t).
type HmdMatrix34 [3][4]float32

// TrackedDevicePose mirrors TrackedDevicePose_t for one device slot.
type TrackedDevicePose struct {
	DeviceToAbsoluteTracking HmdMatrix34
	Velocity                 Vec3
	AngularVelocity          Vec3
	PoseValid                bool
	DeviceConnected          bool
}

// Vec3 is a position or velocity in tracking space, meters.
type Vec3 struct {
	X, Y, Z float32
}

// Quat is a rotation quaternion, W-first.
type Quat struct {
	W, X, Y, Z float32
}

// Pose is a decomposed device transform: where the device is and which
// way it faces, in the tracking universe's coordinate space.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// Identity returns the zero-position, zero-rotation pose.
func Identity() Pose {
	return Pose{Rotation: Quat{W: 1}}
}

// Pose decomposes the matrix into position and rotation. The quaternion
// is extracted through the largest diagonal element to stay numerically
// stable near 180-degree rotations.
func (m HmdMatrix34) Pose() Pose {
	p := Pose{
		Position: Vec3{X: m[0][3], Y: m[1][3], Z: m[2][3]},
	}

	trace := m[0][0] + m[1][1] + m[2][2]
	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		p.Rotation = Quat{
			W: s / 4,
			X: (m[2][1] - m[1][2]) / s,
			Y: (m[0][2] - m[2][0]) / s,
			Z: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := float32(math.Sqrt(float64(1+m[0][0]-m[1][1]-m[2][2]))) * 2
		p.Rotation = Quat{
			W: (m[2][1] - m[1][2]) / s,
			X: s / 4,
			Y: (m[0][1] + m[1][0]) / s,
			Z: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := float32(math.Sqrt(float64(1+m[1][1]-m[0][0]-m[2][2]))) * 2
		p.Rotation = Quat{
			W: (m[0][2] - m[2][0]) / s,
			X: (m[0][1] + m[1][0]) / s,
			Y: s / 4,
			Z: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := float32(math.Sqrt(float64(1+m[2][2]-m[0][0]-m[1][1]))) * 2
		p.Rotation = Quat{
			W: (m[1][0] - m[0][1]) / s,
			X: (m[0][2] + m[2][0]) / s,
			Y: (m[1][2] + m[2][1]) / s,
			Z: s / 4,
		}
	}
	return p
}

// Mul composes two rotations, q first then r in q's frame.
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = q * (0,v) * q^-1, expanded.
	t := Vec3{
		X: 2 * (q.Y*v.Z - q.Z*v.Y),
		Y: 2 * (q.Z*v.X - q.X*v.Z),
		Z: 2 * (q.X*v.Y - q.Y*v.X),
	}
	return Vec3{
		X: v.X + q.W*t.X + q.Y*t.Z - q.Z*t.Y,
		Y: v.Y + q.W*t.Y + q.Z*t.X - q.X*t.Z,
		Z: v.Z + q.W*t.Z + q.X*t.Y - q.Y*t.X,
	}
}

// MatrixFromPose rebuilds a row-major 3x4 matrix from a decomposed pose.
// Useful for constructing test fixtures and simulator slots.
func MatrixFromPose(p Pose) HmdMatrix34 {
	q := p.Rotation
	var m HmdMatrix34
	m[0][0] = 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	m[0][1] = 2 * (q.X*q.Y - q.Z*q.W)
	m[0][2] = 2 * (q.X*q.Z + q.Y*q.W)
	m[1][0] = 2 * (q.X*q.Y + q.Z*q.W)
	m[1][1] = 1 - 2*(q.X*q.X+q.Z*q.Z)
	m[1][2] = 2 * (q.Y*q.Z - q.X*q.W)
	m[2][0] = 2 * (q.X*q.Z - q.Y*q.W)
	m[2][1] = 2 * (q.Y*q.Z + q.X*q.W)
	m[2][2] = 1 - 2*(q.X*q.X+q.Y*q.Y)
	m[0][3] = p.Position.X
	m[1][3] = p.Position.Y
	m[2][3] = p.Position.Z
	return m
}
