//go:build windows

package openvr

import (
	"fmt"

	"golang.org/x/sys/windows"
)

type sharedLib struct {
	dll *windows.LazyDLL
}

func dlopenRuntime() (*sharedLib, error) {
	dll := windows.NewLazySystemDLL("openvr_api.dll")
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("load openvr_api.dll: %w", err)
	}
	return &sharedLib{dll: dll}, nil
}

func (l *sharedLib) sym(name string) (uintptr, error) {
	proc := l.dll.NewProc(name)
	if err := proc.Find(); err != nil {
		return 0, fmt.Errorf("resolve %s: %w", name, err)
	}
	return proc.Addr(), nil
}
