package main

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func drainUpdates(c chan panelUpdate) (panelUpdate, int) {
	var last panelUpdate
	count := 0
	for {
		select {
		case u := <-c:
			last = u
			count++
		default:
			return last, count
		}
	}
}

func TestRunPollerConditionsChannels(t *testing.T) {
	rt, clock, comms := testRuntime()
	tb := rt.backends[0].(*testBackend)
	tb.setVolts(chMic, 1.65)
	tb.setVolts(chQuality, 2.6)
	tb.setVolts(chPot, 1.0)
	tb.setVolts(chThermistor, 1.65)

	startPoller(rt)
	clock.BlockUntil(1)

	upd, _ := updateRead(t, comms.readings)
	assert.Equal(t, upd.backend, "ads1115")
	assert.Equal(t, upd.mic, 50)
	assert.Equal(t, upd.quality, qualityGood)
	assert.Equal(t, upd.potVolts, 1.0)
	assert.Assert(t, upd.tempC > 24 && upd.tempC < 26, "got %f", upd.tempC)
	assert.Assert(t, !upd.tempFault)

	testQuit(rt)
}

func TestRunPollerThermistorFault(t *testing.T) {
	rt, clock, comms := testRuntime()
	tb := rt.backends[0].(*testBackend)
	tb.setVolts(chThermistor, 0) // open divider
	tb.setVolts(chQuality, 2.6)

	startPoller(rt)
	clock.BlockUntil(1)

	upd, _ := updateRead(t, comms.readings)
	assert.Assert(t, upd.tempFault)

	testQuit(rt)
}

func TestRunPollerStaleCarriesLastGood(t *testing.T) {
	rt, clock, comms := testRuntime()
	tb := rt.backends[0].(*testBackend)
	tb.setVolts(chQuality, 2.6)
	tb.setVolts(chThermistor, 1.65)

	interval := testSettings.GetDuration("pollInterval")
	startPoller(rt)
	clock.BlockUntil(1)

	upd, _ := updateRead(t, comms.readings)
	assert.Assert(t, !upd.stale[chThermistor])
	goodTemp := upd.tempC

	// one failed pass, well under the offline threshold
	tb.failNext(chThermistor, errors.New("wedged"))
	testBlockDuration(clock, interval, interval)

	// the last good value rides along, marked stale, never a zero
	upd, _ = updateRead(t, comms.readings)
	assert.Assert(t, upd.stale[chThermistor])
	assert.Assert(t, !upd.offline[chThermistor])
	assert.Equal(t, upd.tempC, goodTemp)
	assert.Assert(t, !upd.tempFault)

	// the next good pass clears the marker
	testBlockDuration(clock, interval, interval)
	upd, _ = updateRead(t, comms.readings)
	assert.Assert(t, !upd.stale[chThermistor])
	assert.Equal(t, upd.tempC, goodTemp)

	testQuit(rt)
}

func TestRunPollerOfflineThreshold(t *testing.T) {
	rt, clock, comms := testRuntime()
	tb := rt.backends[0].(*testBackend)
	tb.setVolts(chQuality, 2.6)

	// non-retryable failures, one per poll pass
	threshold := testSettings.GetInt("failThreshold")
	for i := 0; i < threshold; i++ {
		tb.failNext(chMic, errors.New("wedged"))
	}

	interval := testSettings.GetDuration("pollInterval")
	startPoller(rt)
	testBlockDuration(clock, interval, time.Duration(threshold-1)*interval)

	upd, n := drainUpdates(comms.readings)
	assert.Equal(t, n, threshold)
	assert.Assert(t, upd.offline[chMic])
	assert.Assert(t, !upd.offline[chQuality])

	// the next good pass recovers the channel
	testBlockDuration(clock, interval, interval)
	upd, _ = drainUpdates(comms.readings)
	assert.Assert(t, !upd.offline[chMic])

	testQuit(rt)
}

func TestRunPollerQualityFaultWhenOffline(t *testing.T) {
	rt, clock, comms := testRuntime()
	tb := rt.backends[0].(*testBackend)

	threshold := testSettings.GetInt("failThreshold")
	for i := 0; i < threshold; i++ {
		tb.failNext(chQuality, errors.New("wedged"))
	}

	interval := testSettings.GetDuration("pollInterval")
	startPoller(rt)
	testBlockDuration(clock, interval, time.Duration(threshold-1)*interval)

	upd, _ := drainUpdates(comms.readings)
	assert.Assert(t, upd.offline[chQuality])
	assert.Equal(t, upd.quality, qualityFault)

	testQuit(rt)
}

func TestRunPollerBoundedQueue(t *testing.T) {
	rt, clock, comms := testRuntime()
	rt.backends[0].(*testBackend).setVolts(chQuality, 2.6)

	interval := testSettings.GetDuration("pollInterval")
	startPoller(rt)
	// run well past the queue depth, the poller must never block
	testBlockDuration(clock, interval, time.Duration(readingQueueDepth+3)*interval)

	_, n := drainUpdates(comms.readings)
	assert.Equal(t, n, readingQueueDepth)

	testQuit(rt)
}

func TestRunPollerNoBackend(t *testing.T) {
	rt, clock, comms := testRuntime()
	rt.backends[0].(*testBackend).openErr = errors.New("no such device")
	rt.backends[1].(*testBackend).openErr = errors.New("no spi")

	threshold := testSettings.GetInt("failThreshold")
	interval := testSettings.GetDuration("pollInterval")
	startPoller(rt)
	testBlockDuration(clock, interval, time.Duration(threshold-1)*interval)

	// fail closed: everything reports offline, nothing panics
	upd, _ := drainUpdates(comms.readings)
	assert.Equal(t, upd.backend, "")
	for ch := 0; ch < adcChannels; ch++ {
		assert.Assert(t, upd.offline[ch])
	}

	testQuit(rt)
}
