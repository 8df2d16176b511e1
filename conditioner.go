package main

import (
	"math"

	"github.com/pkg/errors"
)

var errSensorFault = errors.New("sensor fault")

// thermistorCal - Steinhart-Hart coefficients plus the divider layout
type thermistorCal struct {
	a, b, c    float64
	seriesOhms float64
	vref       float64
}

func calFromSettings(settings configSettings) thermistorCal {
	return thermistorCal{
		a:          settings.GetFloat("thermA"),
		b:          settings.GetFloat("thermB"),
		c:          settings.GetFloat("thermC"),
		seriesOhms: settings.GetFloat("seriesResistor"),
		vref:       settings.GetFloat("vref"),
	}
}

const (
	tempClampLow  = -40.0
	tempClampHigh = 150.0
)

// thermistorCelsius converts the divider voltage to degrees C
func thermistorCelsius(cal thermistorCal, volts float64) (float64, error) {
	if volts <= 0 || volts >= cal.vref {
		// open or shorted divider, no finite resistance
		return 0, errors.Wrapf(errSensorFault, "thermistor at %.3fV", volts)
	}

	resistance := cal.seriesOhms * (cal.vref/volts - 1)
	if resistance <= 0 {
		return 0, errors.Wrapf(errSensorFault, "non-positive resistance %.1f", resistance)
	}

	lnR := math.Log(resistance)
	invT := cal.a + cal.b*lnR + cal.c*lnR*lnR*lnR
	tempC := 1/invT - 273.15

	if tempC < tempClampLow {
		tempC = tempClampLow
	}
	if tempC > tempClampHigh {
		tempC = tempClampHigh
	}
	return tempC, nil
}

type signalQuality int

const (
	qualityUnknown signalQuality = iota
	qualityGood
	qualityDegraded
	qualityFault
)

func (q signalQuality) String() string {
	switch q {
	case qualityGood:
		return "good"
	case qualityDegraded:
		return "degraded"
	case qualityFault:
		return "fault"
	default:
		return "unknown"
	}
}

// below this the line is treated as disconnected
const qualityFaultFloor = 0.2

// qualityTracker - tri-state line quality with hysteresis around the
// threshold so a noisy signal doesn't flap
type qualityTracker struct {
	threshold float64
	margin    float64
	state     signalQuality
}

func newQualityTracker(settings configSettings) *qualityTracker {
	return &qualityTracker{
		threshold: settings.GetFloat("qualityThreshold"),
		margin:    settings.GetFloat("qualityMargin"),
		state:     qualityUnknown,
	}
}

func (q *qualityTracker) update(volts float64) signalQuality {
	switch {
	case volts < qualityFaultFloor:
		q.state = qualityFault
	case volts >= q.threshold+q.margin:
		q.state = qualityGood
	case volts <= q.threshold-q.margin:
		q.state = qualityDegraded
	default:
		// inside the band the previous state holds
		if q.state == qualityUnknown {
			q.state = qualityDegraded
		}
	}
	return q.state
}

// fault forces the state, used when the channel itself is offline
func (q *qualityTracker) fault() signalQuality {
	q.state = qualityFault
	return q.state
}

// micLevel maps the mic envelope voltage onto 0..100
func micLevel(volts, vref float64) int {
	level := int(volts / vref * 100)
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	return level
}

// emaSmoother - exponential moving average, seeded by the first sample
type emaSmoother struct {
	alpha  float64
	value  float64
	primed bool
}

func (e *emaSmoother) update(sample float64) float64 {
	if !e.primed {
		e.value = sample
		e.primed = true
		return e.value
	}
	e.value = sample*e.alpha + e.value*(1-e.alpha)
	return e.value
}
