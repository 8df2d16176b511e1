package main

import (
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
)

func testCal() thermistorCal {
	return calFromSettings(testSettings)
}

func TestThermistorMidpoint(t *testing.T) {
	// half of Vref puts the thermistor at its nominal 10k, ~25C
	tempC, err := thermistorCelsius(testCal(), 1.65)
	assert.NilError(t, err)
	assert.Assert(t, tempC > 24 && tempC < 26, "got %f", tempC)
}

func TestThermistorFaults(t *testing.T) {
	_, err := thermistorCelsius(testCal(), 0)
	assert.Equal(t, errors.Cause(err), errSensorFault)

	_, err = thermistorCelsius(testCal(), -0.5)
	assert.Equal(t, errors.Cause(err), errSensorFault)

	// rail voltage means no divider current at all
	_, err = thermistorCelsius(testCal(), 3.3)
	assert.Equal(t, errors.Cause(err), errSensorFault)
}

func TestThermistorClamps(t *testing.T) {
	tempC, err := thermistorCelsius(testCal(), 0.001)
	assert.NilError(t, err)
	assert.Equal(t, tempC, tempClampLow)

	tempC, err = thermistorCelsius(testCal(), 3.29)
	assert.NilError(t, err)
	assert.Equal(t, tempC, tempClampHigh)
}

func TestQualityHysteresis(t *testing.T) {
	q := newQualityTracker(testSettings)

	// first sample inside the band resolves down, not up
	assert.Equal(t, q.update(2.5), qualityDegraded)

	assert.Equal(t, q.update(2.6), qualityGood)
	// back into the band, state holds
	assert.Equal(t, q.update(2.48), qualityGood)
	assert.Equal(t, q.update(2.44), qualityDegraded)
	assert.Equal(t, q.update(2.52), qualityDegraded)
	assert.Equal(t, q.update(2.56), qualityGood)

	// a near-dead line is a fault regardless of history
	assert.Equal(t, q.update(0.1), qualityFault)
	assert.Equal(t, q.update(2.6), qualityGood)
}

func TestQualityNoFlapInsideBand(t *testing.T) {
	q := newQualityTracker(testSettings)

	// dips back inside the band never flip the state
	seq := []float64{2.6, 2.48, 2.52}
	for _, v := range seq {
		assert.Equal(t, q.update(v), qualityGood, "at %f", v)
	}
}

func TestQualityForcedFault(t *testing.T) {
	q := newQualityTracker(testSettings)
	assert.Equal(t, q.update(2.6), qualityGood)
	assert.Equal(t, q.fault(), qualityFault)
}

func TestMicLevel(t *testing.T) {
	assert.Equal(t, micLevel(0, 3.3), 0)
	assert.Equal(t, micLevel(1.65, 3.3), 50)
	assert.Equal(t, micLevel(3.3, 3.3), 100)
	assert.Equal(t, micLevel(-0.1, 3.3), 0)
	assert.Equal(t, micLevel(4.0, 3.3), 100)
}

func TestMicSmoothing(t *testing.T) {
	e := &emaSmoother{alpha: 0.2}

	// first sample seeds the average
	assert.Equal(t, e.update(50), 50.0)
	// then it follows slowly
	v := e.update(100)
	assert.Assert(t, v > 59.9 && v < 60.1, "got %f", v)
	v = e.update(100)
	assert.Assert(t, v > 67.9 && v < 68.1, "got %f", v)
}
