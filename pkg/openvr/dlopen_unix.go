//go:build !windows

package openvr

import (
	"fmt"
	goruntime "runtime"

	"github.com/ebitengine/purego"
)

type sharedLib struct {
	handle uintptr
}

func runtimeLibName() string {
	if goruntime.GOOS == "darwin" {
		return "libopenvr_api.dylib"
	}
	return "libopenvr_api.so"
}

func dlopenRuntime() (*sharedLib, error) {
	handle, err := purego.Dlopen(runtimeLibName(), purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", runtimeLibName(), err)
	}
	return &sharedLib{handle: handle}, nil
}

func (l *sharedLib) sym(name string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", name, err)
	}
	return addr, nil
}
