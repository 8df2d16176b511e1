package main

import (
	"errors"
	"time"

	// keyboard for sim mode
	"github.com/nsf/termbox-go"
)

// simKeys fakes the panel on a dev box: F11 toggles fullscreen,
// space toggles the PTT, everything else is a plain key
type simKeys struct {
	pttDown bool
}

func (sk *simKeys) initKeys(settings configSettings) error {
	err := termbox.Init()
	if err != nil {
		return err
	}

	termbox.SetInputMode(termbox.InputEsc)
	termbox.Flush()

	return nil
}

func (sk *simKeys) closeKeys() {
	termbox.Close()
}

func (sk *simKeys) readKeys(rt runtimeConfig) ([]keyEvent, error) {
	// poll with quick timeout
	// no key means "no change"
	go func() {
		rt.clock.Sleep(100 * time.Millisecond)
		termbox.Interrupt()
	}()

	var ev termbox.Event
	gotKey := false
	waitForInterrupt := true
	for waitForInterrupt {
		evTemp := termbox.PollEvent()
		switch evTemp.Type {
		case termbox.EventKey:
			// add an exit key
			if evTemp.Key == termbox.KeyCtrlC {
				return nil, errors.New("Exit termbox loop")
			}
			ev = evTemp
			gotKey = true
		// wait for the interrupt to fire
		default:
			waitForInterrupt = false
		}
	}

	termbox.Flush()

	if !gotKey {
		return nil, nil
	}

	switch {
	case ev.Key == termbox.KeyF11:
		return []keyEvent{{kind: keyToggleFullscreen}}, nil
	case ev.Key == termbox.KeySpace:
		sk.pttDown = !sk.pttDown
		return []keyEvent{{kind: keyPTT, pressed: sk.pttDown}}, nil
	case ev.Key == termbox.KeyEnter:
		return []keyEvent{{kind: keyChar, key: '\r'}}, nil
	case ev.Key == termbox.KeyEsc:
		return []keyEvent{{kind: keyChar, key: 27}}, nil
	case ev.Ch != 0:
		return []keyEvent{{kind: keyChar, key: ev.Ch}}, nil
	}
	return nil, nil
}
