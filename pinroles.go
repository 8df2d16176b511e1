package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

type pinRole int

const (
	rolePTT pinRole = iota
	roleLED
	roleMicControl
	roleAnalogInput
)

// the analog module rides the I2C pair, these pins are not general purpose
var analogModulePins = []int{2, 3}

// restored panel defaults
const defaultMicControlPin = 4

var (
	errDuplicatePin          = errors.New("pin assigned more than once")
	errMissingRequiredModule = errors.New("MicControl requires the AnalogInput module")
	errInvalidRoleForPinType = errors.New("role not valid for this pin")
	errUnknownRole           = errors.New("unknown role name")
)

var roleNames = map[pinRole]string{
	rolePTT:         "PTT",
	roleLED:         "LED",
	roleMicControl:  "MicControl",
	roleAnalogInput: "AnalogInput",
}

func (r pinRole) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func parseRole(s string) (pinRole, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, errors.Wrap(errUnknownRole, s)
}

type pinRoles struct {
	pins map[int]pinRole
}

func defaultPinRoles() pinRoles {
	p := pinRoles{pins: make(map[int]pinRole)}
	for _, pin := range analogModulePins {
		p.pins[pin] = roleAnalogInput
	}
	p.pins[defaultMicControlPin] = roleMicControl
	return p
}

func pinRolesFromJSON(data []byte) (pinRoles, error) {
	p := pinRoles{pins: make(map[int]pinRole)}
	seen := make(map[int]bool)

	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, offset int) error {
		pin, err := strconv.Atoi(string(key))
		if err != nil {
			return errors.Wrapf(err, "bad pin number %q", string(key))
		}
		if seen[pin] {
			return errors.Wrapf(errDuplicatePin, "pin %d", pin)
		}
		seen[pin] = true

		role, err := parseRole(string(value))
		if err != nil {
			return err
		}
		p.pins[pin] = role
		return nil
	})
	if err != nil {
		return pinRoles{}, err
	}
	return p, nil
}

func loadPinRoles(path string) (pinRoles, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return pinRoles{}, errors.Wrapf(err, "read %s", path)
	}
	p, err := pinRolesFromJSON(data)
	if err != nil {
		return pinRoles{}, err
	}
	if err := p.validate(); err != nil {
		return pinRoles{}, err
	}
	return p, nil
}

func (p *pinRoles) analogModuleAssigned() bool {
	for _, pin := range analogModulePins {
		if r, ok := p.pins[pin]; !ok || r != roleAnalogInput {
			return false
		}
	}
	return true
}

// pinFor returns the first pin carrying the role, or -1
func (p *pinRoles) pinFor(role pinRole) int {
	pins := make([]int, 0, len(p.pins))
	for pin := range p.pins {
		pins = append(pins, pin)
	}
	sort.Ints(pins)
	for _, pin := range pins {
		if p.pins[pin] == role {
			return pin
		}
	}
	return -1
}

func isAnalogModulePin(pin int) bool {
	for _, mp := range analogModulePins {
		if pin == mp {
			return true
		}
	}
	return false
}

func (p *pinRoles) validate() error {
	needAnalog := false
	for pin, role := range p.pins {
		if role == roleAnalogInput {
			if !isAnalogModulePin(pin) {
				return errors.Wrapf(errInvalidRoleForPinType, "pin %d", pin)
			}
			continue
		}
		// the I2C pair is reserved for the analog module
		if isAnalogModulePin(pin) {
			return errors.Wrapf(errInvalidRoleForPinType, "pin %d", pin)
		}
		if role == roleMicControl {
			needAnalog = true
		}
	}
	if needAnalog && !p.analogModuleAssigned() {
		return errors.Wrapf(errMissingRequiredModule,
			"MicControl on pin %d, AnalogInput needs pins %v", p.pinFor(roleMicControl), analogModulePins)
	}
	return nil
}

// direction a role drives its pin in
func (r pinRole) direction() string {
	switch r {
	case rolePTT:
		return "in"
	case roleAnalogInput:
		return "analog"
	default:
		return "out"
	}
}

func (p *pinRoles) toJSON() []byte {
	pins := make([]int, 0, len(p.pins))
	for pin := range p.pins {
		pins = append(pins, pin)
	}
	sort.Ints(pins)

	out := "{\n"
	for i, pin := range pins {
		out += fmt.Sprintf("  %q: %q", strconv.Itoa(pin), p.pins[pin].String())
		if i < len(pins)-1 {
			out += ","
		}
		out += "\n"
	}
	out += "}\n"
	return []byte(out)
}

// save writes atomically: temp file in the same dir, sync, rename
func (p *pinRoles) save(path string) error {
	if err := p.validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, ".pins-*")
	if err != nil {
		return errors.Wrap(err, "save pin roles")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(p.toJSON()); err != nil {
		tmp.Close()
		return errors.Wrap(err, "save pin roles")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "save pin roles")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "save pin roles")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "save pin roles")
}

// asMap is the JSON-facing view used by the config service
func (p *pinRoles) asMap() map[string]string {
	out := make(map[string]string)
	for pin, role := range p.pins {
		out[strconv.Itoa(pin)] = role.String()
	}
	return out
}
