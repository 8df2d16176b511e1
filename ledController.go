package main

import (
	"time"
)

const (
	modeOff = iota
	modeOn
	modeBlink // 50% cycle/sec
	modeUnset // undetermined state
)

type ledEffect struct {
	pin        int
	mode       int
	duration   time.Duration
	curMode    int       // rt setting, on or off
	lastUpdate time.Time // rt setting, last time we changed the state
	startTime  time.Time // rt setting, when we initiated
}

func ledMessage(pin int, mode int, duration time.Duration) ledEffect {
	return ledEffect{pin: pin, mode: mode, duration: duration, startTime: time.Time{}}
}

func ledOn(pin int) ledEffect {
	return ledMessage(pin, modeOn, 0)
}

func ledOff(pin int) ledEffect {
	return ledMessage(pin, modeOff, 0)
}

func ledBlink(pin int, duration time.Duration) ledEffect {
	return ledMessage(pin, modeBlink, duration)
}

func diffLEDEffect(effect1 ledEffect, effect2 ledEffect) bool {
	return effect1.mode != effect2.mode || effect1.pin != effect2.pin ||
		(effect1.duration != effect2.duration && effect1.duration > 0 && effect2.duration > 0)
}

func setLEDEffect(effect ledEffect) ledEffect {
	// clear the rt info
	effect.curMode = modeUnset
	effect.lastUpdate = time.Time{}
	return effect
}

func startLEDController(rt runtimeConfig) {
	wg.Add(1)
	go runLEDController(rt)
}

func runLEDController(rt runtimeConfig) {
	defer wg.Done()
	logger := &ThreadLogger{name: "LEDs"}
	defer func() {
		logger.Println("exiting runLEDController")
	}()

	comms := rt.comms
	leds := make(map[int]ledEffect)

	rt.led.init()

	for true {
		// read all incoming messages at once
		keepReading := true
		for keepReading {
			select {
			case <-comms.quit:
				logger.Println("quit from runLEDController")
				return
			case msg := <-comms.leds:
				// find in leds, determine if we need to change the state
				if val, ok := leds[msg.pin]; ok {
					if diffLEDEffect(val, msg) {
						logger.Printf("Received led message: %v", msg)
						leds[msg.pin] = setLEDEffect(msg)
					}
				} else {
					// new pin; "turn off" for an unknown pin already happened
					if msg.mode != modeOff {
						logger.Printf("Received led message: %v", msg)
						leds[msg.pin] = setLEDEffect(msg)
					}
				}
			default:
				keepReading = false
			}
		}

		// initiate anything modeUnset, toggle anything blinking
		now := rt.clock.Now()
		for i, v := range leds {
			// negative duration is "ignore"
			if v.duration < 0 {
				continue
			}

			if v.curMode == modeUnset {
				if v.mode == modeOff {
					rt.led.off(v.pin)
					v.curMode = modeOff
					// never re-check a plain off
					v.duration = -1
				} else {
					rt.led.on(v.pin)
					v.curMode = modeOn
				}
				v.lastUpdate = now
				v.startTime = v.lastUpdate
				if v.mode == modeOn && v.duration == 0 {
					v.duration = -1
				}
				leds[i] = v
				continue
			}

			// duration expired means turn it off
			if v.duration > 0 && now.Sub(v.startTime) >= v.duration {
				if v.curMode != modeOff {
					rt.led.off(v.pin)
				}
				v.duration = -1
				v.curMode = modeOff
				v.lastUpdate = time.Time{}
				v.startTime = time.Time{}
				leds[i] = v
				continue
			}

			if v.mode != modeBlink {
				continue
			}
			// half-second half cycle
			if now.Sub(v.lastUpdate) >= 500*time.Millisecond {
				if v.curMode == modeOff {
					rt.led.on(v.pin)
					v.curMode = modeOn
				} else {
					rt.led.off(v.pin)
					v.curMode = modeOff
				}
				v.lastUpdate = now
				leds[i] = v
			}
		}

		rt.clock.Sleep(dLEDSleep)
	}
}
