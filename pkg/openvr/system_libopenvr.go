package openvr

import (
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// EVRApplicationType. Background attaches to an already-running SteamVR
// session without claiming scene focus, which is all a tracker poller
// needs.
const vrApplicationBackground = 3

// Entries of VR_IVRSystem_FnTable for "FnTable:IVRSystem_022", in
// openvr_capi.h declaration order.
const (
	fnGetDeviceToAbsoluteTrackingPose = 11
	fnGetTrackedDeviceClass           = 19
	fnGetStringTrackedDeviceProperty  = 27
	fnTableLen                        = 48
)

const systemInterfaceVersion = "FnTable:IVRSystem_022"

// cDevicePose matches the ABI layout of TrackedDevicePose_t.
type cDevicePose struct {
	DeviceToAbsoluteTracking [3][4]float32
	Velocity                 [3]float32
	AngularVelocity          [3]float32
	TrackingResult           int32
	PoseIsValid              uint8
	DeviceIsConnected        uint8
	_                        [2]byte
}

// runtime talks to libopenvr_api through its flat C interface plus the
// IVRSystem function table. Not safe for concurrent use; callers
// serialize access.
type runtime struct {
	loaded      bool
	initialized bool

	initInternal2    func(err *int32, applicationType int32, startupInfo *byte) uint32
	shutdownInternal func()
	getGenericIface  func(version string, err *int32) uintptr
	initErrorDesc    func(code int32) string

	getDeviceClass func(index uint32) int32
	getStringProp  func(index uint32, prop int32, value *byte, bufSize uint32, err *int32) uint32
	getPoses       func(universe int32, predictedSeconds float32, poses *cDevicePose, count uint32)

	poseBuf [MaxTrackedDeviceCount]cDevicePose
	propBuf [maxPropStringSize]byte
}

func (r *runtime) load() error {
	if r.loaded {
		return nil
	}
	lib, err := dlopenRuntime()
	if err != nil {
		return &InitError{Code: -1, Desc: err.Error()}
	}

	for _, f := range []struct {
		name string
		fptr any
	}{
		{"VR_InitInternal2", &r.initInternal2},
		{"VR_ShutdownInternal", &r.shutdownInternal},
		{"VR_GetGenericInterface", &r.getGenericIface},
		{"VR_GetVRInitErrorAsEnglishDescription", &r.initErrorDesc},
	} {
		addr, err := lib.sym(f.name)
		if err != nil {
			return &InitError{Code: -1, Desc: err.Error()}
		}
		purego.RegisterFunc(f.fptr, addr)
	}
	r.loaded = true
	return nil
}

func (r *runtime) Init() error {
	if r.initialized {
		return nil
	}
	if err := r.load(); err != nil {
		return err
	}

	var code int32
	r.initInternal2(&code, vrApplicationBackground, nil)
	if code != 0 {
		return &InitError{Code: code, Desc: r.initErrorDesc(code)}
	}

	iface := r.getGenericIface(systemInterfaceVersion, &code)
	if iface == 0 || code != 0 {
		r.shutdownInternal()
		return &InitError{Code: code, Desc: r.initErrorDesc(code)}
	}

	// iface is a C-owned pointer, never a Go pointer, so the uintptr
	// round-trip is safe; laundering through &iface keeps vet quiet.
	table := unsafe.Slice(*(**uintptr)(unsafe.Pointer(&iface)), fnTableLen)
	purego.RegisterFunc(&r.getDeviceClass, table[fnGetTrackedDeviceClass])
	purego.RegisterFunc(&r.getStringProp, table[fnGetStringTrackedDeviceProperty])
	purego.RegisterFunc(&r.getPoses, table[fnGetDeviceToAbsoluteTrackingPose])

	r.initialized = true
	return nil
}

func (r *runtime) Shutdown() {
	if !r.initialized {
		return
	}
	r.shutdownInternal()
	r.initialized = false
}

func (r *runtime) DeviceClass(index uint32) DeviceClass {
	if !r.initialized || index >= MaxTrackedDeviceCount {
		return DeviceClassInvalid
	}
	return DeviceClass(r.getDeviceClass(index))
}

func (r *runtime) Serial(index uint32) (string, error) {
	if !r.initialized {
		return "", &PropertyError{Index: index, Code: -1}
	}
	var code int32
	n := r.getStringProp(index, PropSerialNumber, &r.propBuf[0], uint32(len(r.propBuf)), &code)
	if code != propSuccess {
		return "", &PropertyError{Index: index, Code: code}
	}
	if n > uint32(len(r.propBuf)) {
		n = uint32(len(r.propBuf))
	}
	// n counts the terminating NUL.
	s := string(r.propBuf[:n])
	return strings.TrimRight(s, "\x00"), nil
}

func (r *runtime) DevicePoses(universe TrackingUniverse, out []TrackedDevicePose) {
	if !r.initialized {
		return
	}
	n := len(out)
	if n > MaxTrackedDeviceCount {
		n = MaxTrackedDeviceCount
	}
	r.getPoses(int32(universe), 0, &r.poseBuf[0], uint32(n))
	for i := 0; i < n; i++ {
		c := &r.poseBuf[i]
		out[i] = TrackedDevicePose{
			DeviceToAbsoluteTracking: HmdMatrix34(c.DeviceToAbsoluteTracking),
			Velocity:                 Vec3{c.Velocity[0], c.Velocity[1], c.Velocity[2]},
			AngularVelocity:          Vec3{c.AngularVelocity[0], c.AngularVelocity[1], c.AngularVelocity[2]},
			PoseValid:                c.PoseIsValid != 0,
			DeviceConnected:          c.DeviceIsConnected != 0,
		}
	}
}
