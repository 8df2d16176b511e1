package main

import (
	"github.com/pkg/errors"

	"reedhall.com/avpanel/ads1115"
)

// ads1115Backend - the preferred converter, on the I2C bus
type ads1115Backend struct {
	dev *ads1115.ADS1115
}

func (b *ads1115Backend) name() string {
	return "ads1115"
}

func (b *ads1115Backend) open(settings configSettings) error {
	// the bus handle is exclusive
	if b.dev != nil {
		return errAlreadyOpen
	}
	dev, err := ads1115.Open(
		settings.GetByte("i2c_device"),
		int(settings.GetByte("i2c_bus")),
		settings.GetBool("adc_simulated"))
	if err != nil {
		return errors.Wrap(err, "ads1115 open")
	}
	b.dev = dev
	return nil
}

func (b *ads1115Backend) readChannel(channel int) (int, float64, error) {
	if b.dev == nil {
		return 0, 0, errNotInitialized
	}
	raw, err := b.dev.ReadSingle(channel)
	if err != nil {
		// an I2C hiccup is worth a retry upstream
		return 0, 0, errors.Wrapf(errBus, "ads1115 channel %d: %s", channel, err.Error())
	}
	volts := float64(raw) * ads1115.FullScaleVolts / 32768.0
	if volts < 0 {
		volts = 0
	}
	return raw, volts, nil
}

func (b *ads1115Backend) close() error {
	if b.dev == nil {
		return nil
	}
	err := b.dev.Close()
	b.dev = nil
	return err
}
