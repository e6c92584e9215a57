package i2s

import "fmt"

// Pin is a reference to a host gpio. periph.io pins satisfy it directly
// (gpio.PinIO has Number), GPIO covers literal pin numbers.
type Pin interface {
	Number() int
}

// GPIO is a literal gpio number used as a Pin.
type GPIO int

func (g GPIO) Number() int { return int(g) }

// PinNoChange tells the vendor driver to leave a pin routing untouched.
const PinNoChange = -1

// maxGPIO is the highest gpio number on the target chip.
const maxGPIO = 39

func pinNumber(name string, p Pin) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("i2s: %s pin is required", name)
	}
	n := p.Number()
	if n < 0 || n > maxGPIO {
		return 0, fmt.Errorf("i2s: %s pin %d is not a valid gpio", name, n)
	}
	return n, nil
}
