package main

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func TestOpenADCPreferenceOrder(t *testing.T) {
	rt, _, _ := testRuntime()

	conn, err := openADC(rt)
	assert.NilError(t, err)
	assert.Equal(t, conn.activeBackend(), "ads1115")
}

func TestOpenADCFallback(t *testing.T) {
	rt, _, _ := testRuntime()
	primary := rt.backends[0].(*testBackend)
	primary.openErr = errors.New("no such device")

	conn, err := openADC(rt)
	assert.NilError(t, err)
	assert.Equal(t, conn.activeBackend(), "mcp3008")
}

func TestOpenADCAllFail(t *testing.T) {
	rt, _, _ := testRuntime()
	rt.backends[0].(*testBackend).openErr = errors.New("no such device")
	rt.backends[1].(*testBackend).openErr = errors.New("no spi")

	conn, err := openADC(rt)
	assert.Assert(t, err != nil)
	assert.Equal(t, conn.activeBackend(), "")

	// fail closed
	_, err = conn.read(0)
	assert.Equal(t, errors.Cause(err), errNotInitialized)
}

func TestADCChannelRange(t *testing.T) {
	rt, _, _ := testRuntime()
	conn, err := openADC(rt)
	assert.NilError(t, err)

	_, err = conn.read(-1)
	assert.Equal(t, errors.Cause(err), errChannelOutOfRange)
	_, err = conn.read(adcChannels)
	assert.Equal(t, errors.Cause(err), errChannelOutOfRange)
}

func TestADCRetryOnBusError(t *testing.T) {
	rt, clock, _ := testRuntime()
	tb := rt.backends[0].(*testBackend)
	tb.setVolts(2, 1.0)

	conn, err := openADC(rt)
	assert.NilError(t, err)

	// two glitches fit inside the retry budget
	tb.failNext(2, errors.Wrap(errBus, "glitch"), errors.Wrap(errBus, "glitch"))

	type result struct {
		r   reading
		err error
	}
	done := make(chan result, 1)
	go func() {
		r, err := conn.read(2)
		done <- result{r, err}
	}()

	backoff := testSettings.GetDuration("adcBackoff")
	clock.BlockUntil(1)
	clock.Advance(backoff)
	clock.BlockUntil(1)
	clock.Advance(backoff * 2)

	res := <-done
	assert.NilError(t, res.err)
	assert.Equal(t, res.r.volts, 1.0)
	assert.Equal(t, res.r.channel, 2)
	assert.Equal(t, tb.reads, 3)
}

func TestADCRetryBudgetExhausted(t *testing.T) {
	rt, clock, _ := testRuntime()
	tb := rt.backends[0].(*testBackend)

	conn, err := openADC(rt)
	assert.NilError(t, err)

	tb.failNext(0,
		errors.Wrap(errBus, "glitch"),
		errors.Wrap(errBus, "glitch"),
		errors.Wrap(errBus, "glitch"))

	done := make(chan error, 1)
	go func() {
		_, err := conn.read(0)
		done <- err
	}()

	backoff := testSettings.GetDuration("adcBackoff")
	clock.BlockUntil(1)
	clock.Advance(backoff)
	clock.BlockUntil(1)
	clock.Advance(backoff * 2)

	err = <-done
	assert.Assert(t, isBusError(err))
	assert.Equal(t, tb.reads, 3)
}

func TestADCNoRetryOnOtherErrors(t *testing.T) {
	rt, _, _ := testRuntime()
	tb := rt.backends[0].(*testBackend)

	conn, err := openADC(rt)
	assert.NilError(t, err)

	tb.failNext(1, errors.New("wedged"))
	_, err = conn.read(1)
	assert.Error(t, err, "wedged")
	assert.Equal(t, tb.reads, 1)
}

func TestADCClose(t *testing.T) {
	rt, _, _ := testRuntime()
	tb := rt.backends[0].(*testBackend)
	tb.setVolts(0, 1.0)

	conn, err := openADC(rt)
	assert.NilError(t, err)

	_, err = conn.read(0)
	assert.NilError(t, err)

	assert.NilError(t, conn.close())
	assert.Assert(t, tb.closed)

	_, err = conn.read(0)
	assert.Equal(t, errors.Cause(err), errNotInitialized)
}

func TestBackendExclusiveOpen(t *testing.T) {
	b := &mcp3008Backend{}
	assert.NilError(t, b.open(testSettings))
	assert.Equal(t, b.open(testSettings), errAlreadyOpen)

	// close releases the handle for a fresh open
	assert.NilError(t, b.close())
	assert.NilError(t, b.open(testSettings))
	assert.NilError(t, b.close())
}

func TestADCReadStampsClock(t *testing.T) {
	rt, clock, _ := testRuntime()
	rt.backends[0].(*testBackend).setVolts(3, 2.0)

	conn, err := openADC(rt)
	assert.NilError(t, err)

	r, err := conn.read(3)
	assert.NilError(t, err)
	assert.Equal(t, r.when, clock.Now())
	assert.Assert(t, r.when != time.Time{})
}
