package main

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gotest.tools/assert"
)

var testSettings configSettings
var cfgFile string = "./test/config.conf"

func panelTestMain(m *testing.M) {
	testSettings = initSettings(cfgFile)
	setupLogging(testSettings, true)

	// run the tests
	code := m.Run()

	os.Exit(code)
}

func logCaller(pc uintptr, file string, line int, ok bool) {
	if !ok {
		file = "?"
		line = 0
	}

	fn := runtime.FuncForPC(pc)
	var fnName string
	if fn == nil {
		fnName = "?()"
	} else {
		dotName := filepath.Ext(fn.Name())
		fnName = strings.TrimLeft(dotName, ".") + "()"
	}

	log.Printf("Starting %s (%s:%d)", fnName, filepath.Base(file), line)
}

func testRuntime() (runtimeConfig, clockwork.FakeClock, commChannels) {
	// make rt for test, log the start of the test
	logCaller(runtime.Caller(1))
	rt := initTestRuntime(testSettings)
	return rt, rt.clock.(clockwork.FakeClock), rt.comms
}

// testBlockDuration walks the fake clock forward one loop tick at a
// time, letting the goroutine under test catch up between steps
func testBlockDuration(clock clockwork.FakeClock, step time.Duration, total time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		clock.BlockUntil(1)
		clock.Advance(step)
	}
	clock.BlockUntil(1)
}

func sessionRead(t *testing.T, c chan sessionMsg) (sessionMsg, error) {
	select {
	case e := <-c:
		return e, nil
	default:
		assert.Assert(t, false, "Nothing to read from session channel")
	}
	return sessionMsg{}, nil
}

func sessionNoRead(t *testing.T, c chan sessionMsg) (sessionMsg, error) {
	select {
	case e := <-c:
		assert.Assert(t, e == sessionMsg{}, "Got an unexpected value on session channel")
	default:
	}
	return sessionMsg{}, nil
}

func updateRead(t *testing.T, c chan panelUpdate) (panelUpdate, error) {
	select {
	case e := <-c:
		return e, nil
	default:
		assert.Assert(t, false, "Nothing to read from readings channel")
	}
	return panelUpdate{}, nil
}

func updateNoRead(t *testing.T, c chan panelUpdate) (panelUpdate, error) {
	select {
	case e := <-c:
		assert.Assert(t, e == panelUpdate{}, "Got an unexpected value from readings channel")
	default:
	}
	return panelUpdate{}, nil
}

func ledRead(t *testing.T, c chan ledEffect) (ledEffect, error) {
	select {
	case e := <-c:
		return e, nil
	default:
		assert.Assert(t, false, "Nothing to read from led channel")
	}
	return ledEffect{}, nil
}

func ledNoRead(t *testing.T, c chan ledEffect) (ledEffect, error) {
	select {
	case e := <-c:
		assert.Assert(t, e == ledEffect{}, "Got an unexpected value from led channel")
	default:
	}
	return ledEffect{}, nil
}
