// Package tracker keeps the authoritative registry of Vive Tracker
// identities: the trackers declared in a roster file and the ones
// discovered through the OpenVR runtime, reconciled on every scan.
package tracker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrRosterUnreadable reports that the roster file could not be opened or
// read. The declared set is left empty so a later reload can recover.
var ErrRosterUnreadable = errors.New("tracker: roster unreadable")

// DeclaredTracker is one roster entry: a serial number pinned to the
// display name it should carry when discovered.
type DeclaredTracker struct {
	Serial string
	Name   string
}

// LoadRosterFile reads a roster from disk. See ParseRoster for the format.
func LoadRosterFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return map[string]string{}, fmt.Errorf("%w: %v", ErrRosterUnreadable, err)
	}
	defer f.Close()
	return ParseRoster(f)
}

// ParseRoster reads semicolon-delimited lines of `serial;name;...`. The
// first line is a header and is always dropped, as is any line whose
// first field contains '#'. Trailing fields are ignored; there is no
// quoting or escaping. Duplicate serials keep their first entry.
func ParseRoster(r io.Reader) (map[string]string, error) {
	declared := make(map[string]string)
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			continue
		}
		fields := strings.Split(line, ";")
		if strings.Contains(fields[0], "#") {
			continue
		}
		if len(fields) < 2 {
			continue
		}
		serial := strings.TrimSpace(fields[0])
		name := strings.TrimSpace(fields[1])
		if serial == "" {
			continue
		}
		if _, ok := declared[serial]; ok {
			continue
		}
		declared[serial] = name
	}
	if err := sc.Err(); err != nil {
		return map[string]string{}, fmt.Errorf("%w: %v", ErrRosterUnreadable, err)
	}
	return declared, nil
}
