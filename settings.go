package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/buger/jsonparser"
)

// keep settings generic strings, type-convert on the fly
type configSettings struct {
	settings map[string]interface{}
}

func defaultSettings() configSettings {
	s := make(map[string]interface{})

	// setting the type here makes the conversion "automatic" later
	s["logFile"] = "/var/log/avpanel.log"
	s["pinConfig"] = "/etc/default/avpanel/pins.json"
	s["pidFile"] = "/var/run/avpanel.pid"
	s["httpAddr"] = ":8080"
	s["httpUser"] = "avpanel"
	s["httpSecret"] = "hangar"

	s["pollInterval"], _ = time.ParseDuration("250ms")
	s["adcBackends"] = "ads1115,mcp3008"
	s["adcRetries"] = 2
	s["adcBackoff"], _ = time.ParseDuration("25ms")
	s["failThreshold"] = 5
	s["i2c_bus"] = byte(1)
	s["i2c_device"] = byte(0x48)

	s["vref"] = 3.3
	s["seriesResistor"] = 10000.0
	s["thermA"] = 1.009249522e-3
	s["thermB"] = 2.378405444e-4
	s["thermC"] = 2.019202697e-7
	s["qualityThreshold"] = 2.5
	s["qualityMargin"] = 0.05
	s["micSmoothing"] = 0.2

	s["exitKeys"] = "tch"
	s["teacherPassword"] = "avteach"
	s["startFullscreen"] = true
	s["pttPin"] = 17
	s["ledPin"] = 27
	s["debug_dump"] = false

	// non-ARM hosts get the simulated hardware by default
	sim := runtime.GOARCH != "arm"
	s["adc_simulated"] = sim
	s["key_simulated"] = sim

	return configSettings{settings: s}
}

func (s *configSettings) settingsFromJSON(data []byte) error {
	tmp := defaultSettings()
	for k, initVal := range tmp.settings {
		// ignore missing fields
		if _, _, _, err := jsonparser.Get(data, k); err != nil {
			continue
		}

		var err error
		switch initVal.(type) {
		case uint8:
			var val uint64
			valSigned, err2 := jsonparser.GetInt(data, k)
			err = err2
			if err != nil {
				// hex strings are allowed for bus addresses
				valString, err3 := jsonparser.GetString(data, k)
				if err3 == nil {
					valSigned, err = strconv.ParseInt(valString, 0, 64)
				}
			}
			val = uint64(valSigned)
			if err == nil {
				s.settings[k] = byte(val)
			}
		case int:
			var val int64
			val, err = jsonparser.GetInt(data, k)
			if err == nil {
				s.settings[k] = int(val)
			}
		case float64:
			s.settings[k], err = jsonparser.GetFloat(data, k)
		case bool:
			var bVal bool
			bVal, err = jsonparser.GetBoolean(data, k)
			if err != nil {
				// try true and false
				sv, _ := jsonparser.GetString(data, k)
				switch strings.ToLower(sv) {
				case "true":
					bVal = true
				case "false":
					bVal = false
				default:
					return err
				}
				err = nil
			}
			s.settings[k] = bVal
		case time.Duration:
			var dur string
			dur, err = jsonparser.GetString(data, k)
			if err == nil {
				var dur2 time.Duration
				dur2, err = time.ParseDuration(dur)
				if err == nil {
					s.settings[k] = dur2
				}
			}
		case string:
			s.settings[k], err = jsonparser.GetString(data, k)
		default:
			err = fmt.Errorf("Bad type: %T", initVal)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func initSettings(configFile string) configSettings {
	log.Println("initSettings")

	// defaults
	s := defaultSettings()

	// try to open the config file
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		log.Fatalf("Could not load conf file '%s', terminating", configFile)
	}

	log.Printf("Reading configuration from '%s'", configFile)

	// json parse it
	if err := s.settingsFromJSON(data); err != nil {
		log.Fatal(err.Error())
	}

	return s
}

func initSettingsFromFlags() configSettings {
	configFile := flag.String("config", "/etc/default/avpanel/avpanel.conf", "config file path")
	flag.Parse()
	return initSettings(*configFile)
}

func (s *configSettings) GetString(key string) string {
	switch v := s.settings[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func (s *configSettings) GetBool(key string) bool {
	switch v := s.settings[key].(type) {
	case bool:
		return v
	default:
		return false
	}
}

func (s *configSettings) GetDuration(key string) time.Duration {
	switch v := s.settings[key].(type) {
	case time.Duration:
		return v
	default:
		return -1
	}
}

func (s *configSettings) GetByte(key string) byte {
	switch v := s.settings[key].(type) {
	case byte:
		return v
	case int: // cast to byte
		return byte(v)
	default:
		return 0
	}
}

func (s *configSettings) GetInt(key string) int {
	switch v := s.settings[key].(type) {
	case int:
		return v
	default:
		return 0
	}
}

func (s *configSettings) GetFloat(key string) float64 {
	switch v := s.settings[key].(type) {
	case float64:
		return v
	default:
		return 0
	}
}

func (s *configSettings) Dump() {
	for k, v := range s.settings {
		log.Printf("%s : %T: %v\n", k, v, v)
	}
}
