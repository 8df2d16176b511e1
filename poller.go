package main

import (
	"time"
)

// panelUpdate is one conditioned pass over the analog channels.
// stale marks a channel whose read failed this pass; its value is the
// last good one carried forward, never a fabricated zero.
type panelUpdate struct {
	when      time.Time
	backend   string
	mic       int
	quality   signalQuality
	potVolts  float64
	tempC     float64
	tempFault bool
	stale     [adcChannels]bool
	offline   [adcChannels]bool
}

func startPoller(rt runtimeConfig) {
	wg.Add(1)
	go runPoller(rt)
}

func runPoller(rt runtimeConfig) {
	defer wg.Done()
	logger := &ThreadLogger{name: "Poller"}
	defer func() {
		logger.Println("exiting runPoller")
	}()

	comms := rt.comms
	settings := rt.settings

	conn, err := openADC(rt)
	if err != nil {
		// fail closed: keep running so the channels report offline
		logger.Printf("no converter available: %s", err.Error())
	}
	defer conn.close()

	cal := calFromSettings(settings)
	quality := newQualityTracker(settings)
	mic := &emaSmoother{alpha: settings.GetFloat("micSmoothing")}

	interval := settings.GetDuration("pollInterval")
	threshold := settings.GetInt("failThreshold")
	vref := settings.GetFloat("vref")

	var failures [adcChannels]int
	var offline [adcChannels]bool
	var last panelUpdate

	for true {
		select {
		case <-comms.quit:
			logger.Println("quit from runPoller")
			return
		default:
		}

		var upd panelUpdate
		upd.backend = conn.activeBackend()

		for ch := 0; ch < adcChannels; ch++ {
			r, err := conn.read(ch)
			if err != nil {
				failures[ch]++
				if failures[ch] >= threshold && !offline[ch] {
					offline[ch] = true
					logger.Printf("channel %d offline after %d failures: %s",
						ch, failures[ch], err.Error())
				}
				upd.stale[ch] = true
				upd.offline[ch] = offline[ch]
				// carry the last good conditioned value, marked stale
				switch ch {
				case chMic:
					upd.mic = last.mic
				case chQuality:
					upd.quality = last.quality
				case chPot:
					upd.potVolts = last.potVolts
				case chThermistor:
					upd.tempC = last.tempC
					upd.tempFault = last.tempFault
				}
				continue
			}

			failures[ch] = 0
			if offline[ch] {
				offline[ch] = false
				logger.Printf("channel %d recovered", ch)
			}

			switch ch {
			case chMic:
				upd.mic = int(mic.update(float64(micLevel(r.volts, vref))))
			case chQuality:
				upd.quality = quality.update(r.volts)
			case chPot:
				upd.potVolts = r.volts
			case chThermistor:
				tempC, err := thermistorCelsius(cal, r.volts)
				if err != nil {
					upd.tempFault = true
				} else {
					upd.tempC = tempC
				}
			}
		}
		if upd.offline[chQuality] {
			upd.quality = quality.fault()
		}
		upd.when = rt.clock.Now()
		last = upd

		// bounded queue: drop the oldest unread update, never block.
		// single producer so the two-step send can't race.
		select {
		case comms.readings <- upd:
		default:
			select {
			case <-comms.readings:
			default:
			}
			select {
			case comms.readings <- upd:
			default:
			}
		}

		rt.clock.Sleep(interval)
	}
}
