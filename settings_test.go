package main

import (
	"testing"
	"time"

	"gotest.tools/assert"
)

func TestSettingsFromJSON(t *testing.T) {
	s := defaultSettings()
	data := []byte(`{
		"pollInterval": "100ms",
		"i2c_device": "0x49",
		"adcRetries": 3,
		"vref": 5.0,
		"adc_simulated": "false",
		"exitKeys": "abc"
	}`)
	assert.NilError(t, s.settingsFromJSON(data))

	assert.Equal(t, s.GetDuration("pollInterval"), 100*time.Millisecond)
	assert.Equal(t, s.GetByte("i2c_device"), byte(0x49))
	assert.Equal(t, s.GetInt("adcRetries"), 3)
	assert.Equal(t, s.GetFloat("vref"), 5.0)
	assert.Equal(t, s.GetBool("adc_simulated"), false)
	assert.Equal(t, s.GetString("exitKeys"), "abc")
}

func TestSettingsDefaultsSurvive(t *testing.T) {
	s := defaultSettings()
	assert.NilError(t, s.settingsFromJSON([]byte(`{}`)))

	assert.Equal(t, s.GetInt("failThreshold"), 5)
	assert.Equal(t, s.GetFloat("qualityThreshold"), 2.5)
	assert.Equal(t, s.GetDuration("pollInterval"), 250*time.Millisecond)
	assert.Equal(t, s.GetString("adcBackends"), "ads1115,mcp3008")
}

func TestSettingsBadDuration(t *testing.T) {
	s := defaultSettings()
	err := s.settingsFromJSON([]byte(`{"pollInterval": "fast"}`))
	assert.Assert(t, err != nil)
}

func TestSettingsAccessorFallbacks(t *testing.T) {
	s := defaultSettings()
	assert.Equal(t, s.GetString("nope"), "")
	assert.Equal(t, s.GetInt("nope"), 0)
	assert.Equal(t, s.GetFloat("nope"), 0.0)
	assert.Equal(t, s.GetBool("nope"), false)
	assert.Equal(t, s.GetDuration("nope"), time.Duration(-1))
	assert.Equal(t, s.GetByte("nope"), byte(0))
}
