package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/seagrayinc/vive-trackers/internal/config"
	"github.com/seagrayinc/vive-trackers/internal/usbprobe"
	"github.com/seagrayinc/vive-trackers/pkg/openvr"
	"github.com/seagrayinc/vive-trackers/pkg/rig"
	"github.com/seagrayinc/vive-trackers/pkg/tracker"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: trackerctl [flags] <command>

commands:
  scan    enumerate trackers once and print them
  watch   poll trackers continuously until interrupted
  usb     list attached SteamVR USB hardware (no runtime needed)

flags:
`)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "config file path (default: per-user config dir)")
	rosterPath := flag.String("roster", "", "roster file path (overrides config)")
	all := flag.Bool("all", false, "admit trackers not present in the roster")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "scan"
	}

	if cmd == "usb" {
		runUSB()
		return
	}

	cfgPath := *configPath
	if cfgPath == "" {
		if dir, err := config.GetDefaultConfigDir(); err == nil {
			cfgPath = filepath.Join(dir, "config.toml")
		}
	}
	cfg := config.DefaultConfig()
	if cfgPath != "" {
		loaded, err := config.LoadConfig(cfgPath)
		if err != nil {
			slog.Warn("config load failed, using defaults", slog.String("path", cfgPath), slog.Any("error", err))
		} else {
			cfg = loaded
		}
	}
	if *rosterPath != "" {
		cfg.Roster.Path = *rosterPath
	}
	if *all {
		cfg.Scan.DeclaredOnly = false
	}

	reg := tracker.NewRegistry(openvr.New(), tracker.Options{
		DeclaredOnly: cfg.Scan.DeclaredOnly,
		LogDetection: cfg.Scan.LogDetection || *verbose,
		Universe:     cfg.Scan.TrackingUniverse(),
	})
	if cfg.Roster.Path != "" {
		if err := reg.LoadRoster(cfg.Roster.Path); err != nil {
			slog.Warn("continuing with empty declared set", slog.Any("error", err))
		}
	}

	switch cmd {
	case "scan":
		runScan(reg)
	case "watch":
		runWatch(cfg, reg)
	default:
		usage()
		os.Exit(2)
	}
}

func runScan(reg *tracker.Registry) {
	proxies, err := reg.Scan()
	if err != nil {
		slog.Error("scan failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := reg.UpdatePoses(); err != nil {
		slog.Warn("pose update failed", slog.Any("error", err))
	}
	printTrackers(reg.Trackers())
	if len(proxies) == 0 {
		os.Exit(1)
	}
}

func runWatch(cfg *config.Config, reg *tracker.Registry) {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	reg.SetSink(rig.New(cfg.Origin.OriginPose()))
	reg.Subscribe(func(proxies []tracker.Proxy) {
		printTrackers(proxies)
	})

	mon := tracker.NewMonitor(reg, tracker.MonitorOptions{
		PoseInterval: cfg.Scan.PoseInterval,
		ScanInterval: cfg.Scan.ScanInterval,
		RosterPath:   cfg.Roster.Path,
	})
	if err := mon.Run(ctx); err != nil {
		slog.Error("monitor failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runUSB() {
	devices, err := usbprobe.Probe()
	if err != nil {
		slog.Error("usb enumeration failed", slog.Any("error", err))
		os.Exit(1)
	}
	if len(devices) == 0 {
		fmt.Println("no SteamVR USB hardware attached")
		os.Exit(1)
	}
	for _, d := range devices {
		kind := "usb"
		if d.HID {
			kind = "hid"
		}
		fmt.Printf("%04x:%04x  %-3s  %-24s %s\n", d.VendorID, d.ProductID, kind, d.Product, d.Path)
	}
}

func printTrackers(proxies []tracker.Proxy) {
	if len(proxies) == 0 {
		fmt.Println("no trackers")
		return
	}
	for _, p := range proxies {
		state := "disconnected"
		if p.Connected {
			state = "connected"
		}
		fmt.Printf("%-20s %-16s slot=%-2d %-12s pos=(%.3f, %.3f, %.3f)\n",
			p.Name, p.Serial, p.DeviceIndex, state,
			p.LastPose.Position.X, p.LastPose.Position.Y, p.LastPose.Position.Z)
	}
}
