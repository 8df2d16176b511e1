package main

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

const adcChannels = 4

// panel channel map
const (
	chMic = iota
	chQuality
	chPot
	chThermistor
)

var (
	errNotInitialized    = errors.New("adc not initialized")
	errChannelOutOfRange = errors.New("adc channel out of range")
	errNoBackend         = errors.New("no adc backend available")
	errAlreadyOpen       = errors.New("adc backend already open")

	// errBus marks transient bus trouble, the only retryable failure
	errBus = errors.New("adc bus error")
)

func isBusError(err error) bool {
	return errors.Cause(err) == errBus
}

// one conditioned sample off the converter
type reading struct {
	channel int
	raw     int
	volts   float64
	when    time.Time
}

// adcConn holds the single bus handle; whoever opened it owns it
type adcConn struct {
	backend adcBackend
	active  string
	open    bool
	retries int
	backoff time.Duration
	rt      runtimeConfig
	logger  flogger
}

func defaultBackends(settings configSettings) []adcBackend {
	return []adcBackend{
		&ads1115Backend{},
		&mcp3008Backend{},
	}
}

// openADC walks the preference order and claims the first backend that opens
func openADC(rt runtimeConfig) (*adcConn, error) {
	conn := &adcConn{
		retries: rt.settings.GetInt("adcRetries"),
		backoff: rt.settings.GetDuration("adcBackoff"),
		rt:      rt,
		logger:  &ThreadLogger{name: "ADC"},
	}

	prefs := strings.Split(rt.settings.GetString("adcBackends"), ",")
	lastErr := errNoBackend
	for _, want := range prefs {
		want = strings.TrimSpace(want)
		for _, b := range rt.backends {
			if b.name() != want {
				continue
			}
			if err := b.open(rt.settings); err != nil {
				conn.logger.Printf("backend %s failed to open: %s", want, err.Error())
				lastErr = err
				continue
			}
			conn.backend = b
			conn.active = want
			conn.open = true
			conn.logger.Printf("using %s backend", want)
			return conn, nil
		}
	}
	// fail closed: conn stays unusable
	return conn, lastErr
}

func (a *adcConn) activeBackend() string {
	if a == nil || !a.open {
		return ""
	}
	return a.active
}

func (a *adcConn) read(channel int) (reading, error) {
	if a == nil || !a.open {
		return reading{}, errNotInitialized
	}
	if channel < 0 || channel >= adcChannels {
		return reading{}, errors.Wrapf(errChannelOutOfRange, "channel %d", channel)
	}

	backoff := a.backoff
	for attempt := 0; ; attempt++ {
		raw, volts, err := a.backend.readChannel(channel)
		if err == nil {
			return reading{channel: channel, raw: raw, volts: volts, when: a.rt.clock.Now()}, nil
		}
		if !isBusError(err) || attempt >= a.retries {
			return reading{}, err
		}
		a.logger.Printf("bus error on channel %d, retrying: %s", channel, err.Error())
		a.rt.clock.Sleep(backoff)
		backoff *= 2
	}
}

func (a *adcConn) close() error {
	if a == nil || !a.open {
		return nil
	}
	a.open = false
	a.logger.Printf("releasing %s backend", a.active)
	return a.backend.close()
}
