// Package openvr is a minimal binding to the SteamVR/OpenVR runtime,
// covering the surface needed to enumerate tracked devices and fetch
// their poses. Constants mirror openvr_capi.h.
package openvr

import "fmt"

// MaxTrackedDeviceCount is the size of the runtime's device slot range
// (k_unMaxTrackedDeviceCount).
const MaxTrackedDeviceCount = 64

// DeviceClass identifies what kind of hardware occupies a device slot
// (ETrackedDeviceClass).
type DeviceClass int32

const (
	DeviceClassInvalid           DeviceClass = 0
	DeviceClassHMD               DeviceClass = 1
	DeviceClassController        DeviceClass = 2
	DeviceClassGenericTracker    DeviceClass = 3
	DeviceClassTrackingReference DeviceClass = 4
	DeviceClassDisplayRedirect   DeviceClass = 5
)

func (c DeviceClass) String() string {
	switch c {
	case DeviceClassInvalid:
		return "invalid"
	case DeviceClassHMD:
		return "hmd"
	case DeviceClassController:
		return "controller"
	case DeviceClassGenericTracker:
		return "generic_tracker"
	case DeviceClassTrackingReference:
		return "tracking_reference"
	case DeviceClassDisplayRedirect:
		return "display_redirect"
	}
	return fmt.Sprintf("unknown(%d)", int32(c))
}

// TrackingUniverse selects the origin of the absolute tracking space
// (ETrackingUniverseOrigin).
type TrackingUniverse int32

const (
	UniverseSeated   TrackingUniverse = 0
	UniverseStanding TrackingUniverse = 1
	UniverseRaw      TrackingUniverse = 2
)

// Property IDs from ETrackedDeviceProperty. Only the string properties the
// library reads are listed.
const (
	PropSerialNumber   = 1002 // Prop_SerialNumber_String
	PropModelNumber    = 1001 // Prop_ModelNumber_String
	PropManufacturer   = 1005 // Prop_ManufacturerName_String
	maxPropStringSize  = 32 * 1024
	propSuccess        = 0
	propBufferTooSmall = 2 // TrackedProp_BufferTooSmall
)

// InitError reports that the runtime refused to start, preserving the
// native EVRInitError code for the caller.
type InitError struct {
	Code int32
	Desc string
}

func (e *InitError) Error() string {
	if e.Desc != "" {
		return fmt.Sprintf("openvr: init failed: %s (%d)", e.Desc, e.Code)
	}
	return fmt.Sprintf("openvr: init failed: EVRInitError %d", e.Code)
}

// PropertyError reports that a per-slot property read failed. Callers are
// expected to skip the slot and move on.
type PropertyError struct {
	Index uint32
	Code  int32
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("openvr: property read failed for slot %d: ETrackedPropertyError %d", e.Index, e.Code)
}

// System is the subset of IVRSystem this library depends on. The real
// runtime implements it via libopenvr_api; Sim implements it in memory.
type System interface {
	// Init connects to the runtime. Implementations return *InitError on
	// failure and must tolerate a retry after a failed attempt.
	Init() error
	// Shutdown releases the runtime connection.
	Shutdown()
	// DeviceClass reports the class of the device occupying a slot.
	// Empty slots report DeviceClassInvalid.
	DeviceClass(index uint32) DeviceClass
	// Serial reads the slot's serial number string property. Failures
	// are returned as *PropertyError.
	Serial(index uint32) (string, error)
	// DevicePoses fills out with one pose snapshot per slot, starting at
	// slot 0, for the given tracking universe.
	DevicePoses(universe TrackingUniverse, out []TrackedDevicePose)
}

// New returns a System backed by the installed OpenVR runtime. The
// runtime library is not loaded until Init is called.
func New() System {
	return &runtime{}
}
