package main

import (
	"log"

	"github.com/stianeikeland/go-rpio/v4"
)

type rpioLed struct {
	logger flogger
}

func (rpi *rpioLed) init() {
	rpi.logger = &ThreadLogger{name: "LEDs"}
	if err := rpio.Open(); err != nil {
		log.Fatalf(err.Error())
	}
	rpi.logger.Println("gpio ready")
}

// set drives the pin directly; PTT toggles this at human speed but the
// blink path hits it twice a second, so no per-set logging here
func (rpi *rpioLed) set(pinNum int, on bool) {
	pin := rpio.Pin(pinNum)
	pin.Output()
	if on {
		pin.High()
	} else {
		pin.Low()
	}
}

func (rpi *rpioLed) on(pin int) {
	rpi.set(pin, true)
}

func (rpi *rpioLed) off(pin int) {
	rpi.set(pin, false)
}
