package main

import (
	"fmt"
)

// logLed records pin writes for tests instead of touching gpio
type logLed struct {
	leds       []bool
	audit      []string
	disableLog bool
	logger     flogger
}

func (ll *logLed) init() {
	ll.leds = make([]bool, 32)
	ll.audit = make([]string, 0)
	ll.logger = &ThreadLogger{name: "LEDs"}
}

func (ll *logLed) set(pinNum int, on bool) {
	ll.leds[pinNum] = on
	if !ll.disableLog {
		ll.logger.Printf("pin %d -> %v", pinNum, on)
	}
	ll.audit = append(ll.audit, fmt.Sprintf("pin %d -> %v", pinNum, on))
}

func (ll *logLed) on(pinNum int) {
	ll.set(pinNum, true)
}

func (ll *logLed) off(pinNum int) {
	ll.set(pinNum, false)
}
