package main

func startWatchKeys(rt runtimeConfig) {
	wg.Add(1)
	go runWatchKeys(rt)
}

func runWatchKeys(rt runtimeConfig) {
	defer wg.Done()
	logger := &ThreadLogger{name: "Keys"}
	defer func() {
		logger.Println("exiting runWatchKeys")
	}()

	comms := rt.comms

	if err := rt.keys.initKeys(rt.settings); err != nil {
		logger.Println(err.Error())
		return
	}
	defer rt.keys.closeKeys()

	for true {
		select {
		case <-comms.quit:
			logger.Println("quit from runWatchKeys")
			return
		default:
		}

		events, err := rt.keys.readKeys(rt)
		if err != nil {
			// the sim's exit key lands here
			logger.Println("quit from runWatchKeys")
			comms.shutdown()
			return
		}

		for _, ev := range events {
			switch ev.kind {
			case keyToggleFullscreen:
				comms.session <- toggleFullscreenMsg()
			case keyPTT:
				comms.session <- pttMsg(ev.pressed)
			case keyChar:
				comms.session <- keyMsg(ev.key)
			}
		}

		rt.clock.Sleep(dKeySleep)
	}
}
