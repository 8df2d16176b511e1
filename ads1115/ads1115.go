// ADS1115 16-bit converter, single-shot mode
package ads1115

import (
	"errors"
	"time"

	"reedhall.com/avpanel/i2c"
)

const (
	reg_CONVERSION = 0x00
	reg_CONFIG     = 0x01

	cfg_OS_SINGLE    = 0x8000
	cfg_MUX_SINGLE   = 0x4000 // single-ended AIN0, + channel << 12
	cfg_PGA_4V       = 0x0200 // +/- 4.096V
	cfg_MODE_SINGLE  = 0x0100
	cfg_DR_128SPS    = 0x0080
	cfg_COMP_DISABLE = 0x0003
)

// FullScaleVolts matches the PGA setting above
const FullScaleVolts = 4.096

// Channels on the converter
const Channels = 4

// one conversion at 128 SPS takes ~8ms, leave some slack
const conversionWait = 10 * time.Millisecond

type ADS1115 struct {
	i2c       *i2c.I2C
	simulated bool
}

func Open(address byte, bus int, simulated bool) (*ADS1115, error) {
	dev, err := i2c.Open(address, bus, simulated)
	if err != nil {
		return nil, err
	}
	return &ADS1115{i2c: dev, simulated: simulated}, nil
}

func (a *ADS1115) Close() error {
	if a.i2c == nil {
		return nil
	}
	err := a.i2c.Close()
	a.i2c = nil
	return err
}

// ReadSingle runs one single-shot conversion and returns the signed counts
func (a *ADS1115) ReadSingle(channel int) (int, error) {
	if a.i2c == nil {
		return 0, errors.New("device not open")
	}
	if channel < 0 || channel >= Channels {
		return 0, errors.New("bad channel")
	}

	config := cfg_OS_SINGLE | cfg_MUX_SINGLE | (channel << 12) |
		cfg_PGA_4V | cfg_MODE_SINGLE | cfg_DR_128SPS | cfg_COMP_DISABLE

	if _, err := a.i2c.Write([]byte{reg_CONFIG, byte(config >> 8), byte(config & 0xff)}); err != nil {
		return 0, err
	}

	time.Sleep(conversionWait)

	if _, err := a.i2c.WriteByte(reg_CONVERSION); err != nil {
		return 0, err
	}
	var buf [2]byte
	if _, err := a.i2c.Read(buf[:]); err != nil {
		return 0, err
	}

	raw := int16(uint16(buf[0])<<8 | uint16(buf[1]))
	return int(raw), nil
}
