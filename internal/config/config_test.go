package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seagrayinc/vive-trackers/pkg/openvr"
)

func TestLoadConfigWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Scan.PoseInterval != 16*time.Millisecond {
		t.Fatalf("unexpected default: %v", cfg.Scan.PoseInterval)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	want := DefaultConfig()
	want.Roster.Path = "/etc/trackers.csv"
	want.Scan.DeclaredOnly = false
	want.Scan.Universe = "raw"
	want.Scan.ScanInterval = 5 * time.Second
	want.Origin.Position = [3]float32{1, 0.5, -2}
	want.Origin.YawDegrees = 45

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestTrackingUniverseMapping(t *testing.T) {
	tests := []struct {
		in   string
		want openvr.TrackingUniverse
	}{
		{"seated", openvr.UniverseSeated},
		{"standing", openvr.UniverseStanding},
		{"raw", openvr.UniverseRaw},
		{"bogus", openvr.UniverseStanding},
		{"", openvr.UniverseStanding},
	}
	for _, tt := range tests {
		c := ScanConfig{Universe: tt.in}
		if got := c.TrackingUniverse(); got != tt.want {
			t.Fatalf("universe %q: got %v want %v", tt.in, got, tt.want)
		}
	}
}

func TestOriginPoseYaw(t *testing.T) {
	c := OriginConfig{Position: [3]float32{1, 2, 3}, YawDegrees: 90}
	p := c.OriginPose()
	if p.Position != (openvr.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("position: %+v", p.Position)
	}
	s := math.Sqrt2 / 2
	if math.Abs(float64(p.Rotation.W)-s) > 1e-5 || math.Abs(float64(p.Rotation.Y)-s) > 1e-5 {
		t.Fatalf("rotation: %+v", p.Rotation)
	}
}
