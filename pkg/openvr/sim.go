package openvr

// Sim is an in-memory System for tests and demos. Slots are scripted by
// the caller; no hardware or SteamVR installation is required.
type Sim struct {
	// InitErr, when non-nil, is returned by Init until cleared.
	InitErr *InitError

	initialized bool
	initCalls   int
	slots       [MaxTrackedDeviceCount]simSlot
}

type simSlot struct {
	class     DeviceClass
	serial    string
	serialErr *PropertyError
	pose      TrackedDevicePose
}

func NewSim() *Sim {
	return &Sim{}
}

// Attach scripts a device into a slot.
func (s *Sim) Attach(index uint32, class DeviceClass, serial string) {
	s.slots[index] = simSlot{class: class, serial: serial}
}

// Detach empties a slot, as if the runtime dropped the device.
func (s *Sim) Detach(index uint32) {
	s.slots[index] = simSlot{}
}

// FailSerial makes the slot's serial read fail with the given native code.
func (s *Sim) FailSerial(index uint32, code int32) {
	s.slots[index].serialErr = &PropertyError{Index: index, Code: code}
}

// SetPose scripts the slot's pose snapshot.
func (s *Sim) SetPose(index uint32, pose Pose, connected, valid bool) {
	s.slots[index].pose = TrackedDevicePose{
		DeviceToAbsoluteTracking: MatrixFromPose(pose),
		PoseValid:                valid,
		DeviceConnected:          connected,
	}
}

// InitCalls reports how many times Init has been invoked.
func (s *Sim) InitCalls() int { return s.initCalls }

// Initialized reports whether the last Init succeeded.
func (s *Sim) Initialized() bool { return s.initialized }

func (s *Sim) Init() error {
	s.initCalls++
	if s.InitErr != nil {
		return s.InitErr
	}
	s.initialized = true
	return nil
}

func (s *Sim) Shutdown() {
	s.initialized = false
}

func (s *Sim) DeviceClass(index uint32) DeviceClass {
	if index >= MaxTrackedDeviceCount {
		return DeviceClassInvalid
	}
	return s.slots[index].class
}

func (s *Sim) Serial(index uint32) (string, error) {
	if index >= MaxTrackedDeviceCount {
		return "", &PropertyError{Index: index, Code: -1}
	}
	if err := s.slots[index].serialErr; err != nil {
		return "", err
	}
	return s.slots[index].serial, nil
}

func (s *Sim) DevicePoses(universe TrackingUniverse, out []TrackedDevicePose) {
	for i := range out {
		if i >= MaxTrackedDeviceCount {
			return
		}
		out[i] = s.slots[i].pose
	}
}
