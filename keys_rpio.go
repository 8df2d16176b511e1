package main

import (
	"time"

	"github.com/stianeikeland/go-rpio/v4"
)

// check the press state, and return the press state
type pressState struct {
	pressed bool      // is it pressed?
	start   time.Time // when did this state start?
	changed bool      // did the above data change at all?
}

// rpioKeys watches the physical PTT switch
type rpioKeys struct {
	pin   rpio.Pin
	state pressState
}

func (rk *rpioKeys) initKeys(settings configSettings) error {
	if err := rpio.Open(); err != nil {
		return err
	}

	rk.pin = rpio.Pin(settings.GetInt("pttPin"))
	rk.pin.Input()  // Input mode
	rk.pin.PullUp() // GND => switch closed
	rk.state = pressState{}
	return nil
}

func (rk *rpioKeys) closeKeys() {
	// leave rpio open, the led driver shares it
}

func (rk *rpioKeys) readKeys(rt runtimeConfig) ([]keyEvent, error) {
	now := rt.clock.Now()

	// pullup: low is pressed
	pressed := rk.pin.Read() == rpio.Low
	if pressed == rk.state.pressed {
		return nil, nil
	}

	rk.state = pressState{pressed: pressed, start: now, changed: true}
	return []keyEvent{{kind: keyPTT, pressed: pressed}}, nil
}
