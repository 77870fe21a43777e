// Package config holds the service configuration for the tracker poller.
package config

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/seagrayinc/vive-trackers/pkg/openvr"
)

// Config is the full on-disk configuration.
type Config struct {
	Roster RosterConfig `toml:"roster"`
	Scan   ScanConfig   `toml:"scan"`
	Origin OriginConfig `toml:"origin"`
}

// RosterConfig locates the declared-tracker roster file.
type RosterConfig struct {
	Path string `toml:"path"`
}

// ScanConfig tunes discovery and the polling loop.
type ScanConfig struct {
	DeclaredOnly bool          `toml:"declared_only"`
	LogDetection bool          `toml:"log_detection"`
	Universe     string        `toml:"universe"` // "seated", "standing" or "raw"
	PoseInterval time.Duration `toml:"pose_interval"`
	ScanInterval time.Duration `toml:"scan_interval"`
}

// OriginConfig places the calibration origin all tracker objects are
// parented under.
type OriginConfig struct {
	Position   [3]float32 `toml:"position"`
	YawDegrees float64    `toml:"yaw_degrees"`
}

// DefaultConfig returns the configuration used when no file exists yet.
func DefaultConfig() *Config {
	return &Config{
		Roster: RosterConfig{
			Path: "trackers.csv",
		},
		Scan: ScanConfig{
			DeclaredOnly: true,
			LogDetection: false,
			Universe:     "standing",
			PoseInterval: 16 * time.Millisecond,
			ScanInterval: 2 * time.Second,
		},
	}
}

// GetDefaultConfigDir returns the per-user configuration directory.
func GetDefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "vive-trackers"), nil
}

// LoadConfig reads the configuration file, writing the defaults to disk
// first if the file does not exist yet.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig writes the configuration as TOML, creating the directory if
// needed.
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// TrackingUniverse maps the configured universe name onto the runtime
// constant. Unknown names fall back to standing.
func (c *ScanConfig) TrackingUniverse() openvr.TrackingUniverse {
	switch c.Universe {
	case "seated":
		return openvr.UniverseSeated
	case "raw":
		return openvr.UniverseRaw
	default:
		return openvr.UniverseStanding
	}
}

// OriginPose builds the calibration pose: a translation plus a yaw about
// the vertical axis.
func (c *OriginConfig) OriginPose() openvr.Pose {
	half := c.YawDegrees * math.Pi / 180 / 2
	return openvr.Pose{
		Position: openvr.Vec3{X: c.Position[0], Y: c.Position[1], Z: c.Position[2]},
		Rotation: openvr.Quat{
			W: float32(math.Cos(half)),
			Y: float32(math.Sin(half)),
		},
	}
}
