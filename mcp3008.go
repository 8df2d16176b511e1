package main

import (
	"log"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

// mcp3008Backend - 10-bit SPI fallback for panels without the I2C module
type mcp3008Backend struct {
	opened    bool
	simulated bool
	vref      float64
}

func (b *mcp3008Backend) name() string {
	return "mcp3008"
}

func (b *mcp3008Backend) open(settings configSettings) error {
	// the bus handle is exclusive
	if b.opened {
		return errAlreadyOpen
	}
	b.vref = settings.GetFloat("vref")
	b.simulated = settings.GetBool("adc_simulated")
	if b.simulated {
		log.Println("mcp3008: simulated SPI")
		b.opened = true
		return nil
	}

	if err := rpio.Open(); err != nil {
		return errors.Wrap(err, "mcp3008 open")
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		return errors.Wrap(err, "mcp3008 spi")
	}
	rpio.SpiSpeed(1350000)
	rpio.SpiChipSelect(0)
	b.opened = true
	return nil
}

func (b *mcp3008Backend) readChannel(channel int) (int, float64, error) {
	if !b.opened {
		return 0, 0, errNotInitialized
	}

	if b.simulated {
		raw := 512
		return raw, float64(raw) * b.vref / 1023.0, nil
	}

	// start bit, single-ended mode + channel, one clocking byte
	data := []byte{0x01, byte(8+channel) << 4, 0x00}
	rpio.SpiExchange(data)

	raw := int(data[1]&0x03)<<8 | int(data[2])
	return raw, float64(raw) * b.vref / 1023.0, nil
}

func (b *mcp3008Backend) close() error {
	if !b.opened {
		return nil
	}
	b.opened = false
	if !b.simulated {
		rpio.SpiEnd(rpio.Spi0)
	}
	return nil
}
