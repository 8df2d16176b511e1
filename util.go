// runtime wiring shared by all the worker goroutines
package main

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var wg sync.WaitGroup

const (
	dSessionSleep = 50 * time.Millisecond
	dLEDSleep     = 100 * time.Millisecond
	dKeySleep     = 100 * time.Millisecond
	dSvcSleep     = 100 * time.Millisecond
)

// how many panel updates can sit unread before the oldest is dropped
const readingQueueDepth = 8

type commChannels struct {
	quit      chan struct{}
	quitOnce  *sync.Once
	session   chan sessionMsg
	readings  chan panelUpdate
	leds      chan ledEffect
	configSvc chan configSvcMsg
}

// shutdown closes quit exactly once, whoever asks first wins
func (c commChannels) shutdown() {
	c.quitOnce.Do(func() {
		close(c.quit)
	})
}

type runtimeConfig struct {
	settings      configSettings
	comms         commChannels
	clock         clockwork.Clock
	logger        flogger
	led           led
	keys          keys
	backends      []adcBackend
	configService configService
}

func initCommChannels() commChannels {
	return commChannels{
		quit:      make(chan struct{}),
		quitOnce:  &sync.Once{},
		session:   make(chan sessionMsg, 10),
		readings:  make(chan panelUpdate, readingQueueDepth),
		leds:      make(chan ledEffect, 1),
		configSvc: make(chan configSvcMsg, 1),
	}
}

func initRuntime(settings configSettings) runtimeConfig {
	var k keys
	if settings.GetBool("key_simulated") {
		k = &simKeys{}
	} else {
		k = &rpioKeys{}
	}

	return runtimeConfig{
		settings:      settings,
		comms:         initCommChannels(),
		clock:         clockwork.NewRealClock(),
		logger:        &ThreadLogger{name: "main"},
		led:           &rpioLed{},
		keys:          k,
		backends:      defaultBackends(settings),
		configService: &httpConfigService{},
	}
}

func initTestRuntime(settings configSettings) runtimeConfig {
	ll := &logLed{}
	ll.init()

	return runtimeConfig{
		settings:      settings,
		comms:         initCommChannels(),
		clock:         clockwork.NewFakeClock(),
		logger:        &ThreadLogger{name: "test"},
		led:           ll,
		keys:          &logKeys{},
		backends:      []adcBackend{newTestBackend("ads1115"), newTestBackend("mcp3008")},
		configService: &testConfigService{},
	}
}

func testQuit(rt runtimeConfig) {
	rt.comms.shutdown()
}
