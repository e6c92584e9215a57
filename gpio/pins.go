// Package gpio resolves host pin names to pin references usable in
// i2s.Config, backed by periph.io.
package gpio

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/mklimuk/i2s"
)

var initOnce sync.Once
var initErr error

// Lookup resolves a pin by its periph.io name or number ("22", "GPIO22")
// to a reference usable as i2s.Config pin. periph pins implement Number,
// so the registry entry is returned directly.
func Lookup(name string) (i2s.Pin, error) {
	initOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("could not init host: %w", initErr)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown gpio %q", name)
	}
	return pin, nil
}
