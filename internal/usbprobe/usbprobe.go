// Package usbprobe checks which SteamVR hardware is physically attached
// before the runtime is initialized. A missing headset or watchman dongle
// is the usual reason tracker discovery comes up empty, and a USB-level
// listing is cheaper to interpret than a runtime init error code.
package usbprobe

import (
	"sort"

	"github.com/karalabe/usb"
	usbhid "rafaelmartins.com/p/usbhid"
)

// Vendor IDs of SteamVR tracking hardware.
const (
	VendorValve uint16 = 0x28DE // headsets, watchman dongles, trackers
	VendorHTC   uint16 = 0x0BB4 // Vive headsets and link boxes
)

// Device is one attached piece of SteamVR USB hardware.
type Device struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
	HID          bool
}

func steamVRVendor(vid uint16) bool {
	return vid == VendorValve || vid == VendorHTC
}

// Probe enumerates attached SteamVR hardware. HID enumeration runs first;
// raw USB fills in interfaces that are not exposed as HID on this
// platform. Results are sorted by path.
func Probe() ([]Device, error) {
	var out []Device
	seen := make(map[string]bool)

	hidDevs, hidErr := usbhid.Enumerate(nil)
	for _, d := range hidDevs {
		if !steamVRVendor(d.VendorId()) {
			continue
		}
		out = append(out, Device{
			Path:         d.Path(),
			VendorID:     d.VendorId(),
			ProductID:    d.ProductId(),
			Product:      d.Product(),
			Manufacturer: d.Manufacturer(),
			HID:          true,
		})
		seen[d.Path()] = true
	}

	rawDevs, rawErr := usb.Enumerate(0, 0)
	if hidErr != nil && rawErr != nil {
		return nil, rawErr
	}
	for _, d := range rawDevs {
		if !steamVRVendor(d.VendorID) || seen[d.Path] {
			continue
		}
		out = append(out, Device{
			Path:         d.Path,
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Product:      d.Product,
			Manufacturer: d.Manufacturer,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
