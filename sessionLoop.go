package main

// statusSnapshot is what the session loop publishes for the
// diagnostics service
type statusSnapshot struct {
	session  string
	unlocked bool
	pins     map[string]string
	update   panelUpdate
}

type configSvcMsg struct {
	status statusSnapshot
}

func startSession(rt runtimeConfig) {
	wg.Add(1)
	go runSession(rt)
}

// runSession owns all session state. Messages arrive from the key
// watcher, the signal bridge, the poller and the config service;
// nothing else mutates the state machine.
func runSession(rt runtimeConfig) {
	defer wg.Done()
	logger := &ThreadLogger{name: "Session"}
	defer func() {
		logger.Println("exiting runSession")
	}()

	comms := rt.comms
	settings := rt.settings

	roles, err := loadPinRoles(settings.GetString("pinConfig"))
	if err != nil {
		logger.Printf("pin config: %s, using defaults", err.Error())
		roles = defaultPinRoles()
	}

	sess := newSessionController(settings, logger)
	micPin := roles.pinFor(roleMicControl)
	ledPin := roles.pinFor(roleLED)
	if ledPin < 0 {
		ledPin = settings.GetInt("ledPin")
	}

	for pin, role := range roles.pins {
		logger.Printf("pin %d: %s (%s)", pin, role, role.direction())
	}

	rt.led.init()
	var lastUpdate panelUpdate
	pttDown := false
	warnBlink := false

	for true {
		// drain everything pending before acting
		keepReading := true
		exiting := false
		for keepReading {
			select {
			case <-comms.quit:
				logger.Println("quit from runSession")
				return
			case msg := <-comms.session:
				switch msg.cmd {
				case cmdPTT:
					// PTT only works with the mic module wired up
					if micPin < 0 || !roles.analogModuleAssigned() {
						logger.Println("PTT ignored, mic module not configured")
						break
					}
					if msg.pressed != pttDown {
						pttDown = msg.pressed
						logger.Printf("PTT %v", pttDown)
						rt.led.set(micPin, pttDown)
						if pttDown {
							comms.leds <- ledOn(ledPin)
						} else {
							comms.leds <- ledOff(ledPin)
						}
						// PTT took the LED, let the health check re-assert
						warnBlink = false
					}
				case cmdReloadPins:
					newRoles, err := loadPinRoles(settings.GetString("pinConfig"))
					if err != nil {
						logger.Printf("pin reload failed: %s", err.Error())
						break
					}
					roles = newRoles
					micPin = roles.pinFor(roleMicControl)
					if ledPin = roles.pinFor(roleLED); ledPin < 0 {
						ledPin = settings.GetInt("ledPin")
					}
					logger.Println("pin roles reloaded")
				default:
					was := sess.state
					if sess.apply(msg) {
						exiting = true
					}
					if sess.state != was {
						logger.Printf("session %s -> %s", was, sess.state)
					}
				}
			case upd := <-comms.readings:
				lastUpdate = upd
			default:
				keepReading = false
			}
		}

		if exiting {
			logger.Println("session ending")
			comms.shutdown()
			return
		}

		// blink the panel LED while any channel is offline; PTT holds
		// the LED solid until released
		anyOffline := false
		for _, off := range lastUpdate.offline {
			if off {
				anyOffline = true
				break
			}
		}
		if !pttDown && anyOffline != warnBlink {
			warnBlink = anyOffline
			if warnBlink {
				logger.Println("channel offline, blinking panel LED")
				comms.leds <- ledBlink(ledPin, 0)
			} else {
				comms.leds <- ledOff(ledPin)
			}
		}

		// publish for the diagnostics service, drop if it's behind
		snap := statusSnapshot{
			session:  sess.state.String(),
			unlocked: sess.teacherUnlocked,
			pins:     roles.asMap(),
			update:   lastUpdate,
		}
		select {
		case comms.configSvc <- configSvcMsg{status: snap}:
		default:
		}

		rt.clock.Sleep(dSessionSleep)
	}
}
