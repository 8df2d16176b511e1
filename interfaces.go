package main

// led drives digital output pins, real or logged
type led interface {
	init()
	set(pin int, on bool)
	on(pin int)
	off(pin int)
}

// keys delivers operator input, from the keyboard sim or the panel pins
type keys interface {
	initKeys(settings configSettings) error
	readKeys(rt runtimeConfig) ([]keyEvent, error)
	closeKeys()
}

const (
	keyChar = iota
	keyPTT
	keyToggleFullscreen
)

type keyEvent struct {
	kind    int
	key     rune
	pressed bool // for keyPTT
}

// adcBackend is one physical converter driver
type adcBackend interface {
	name() string
	open(settings configSettings) error
	readChannel(channel int) (raw int, volts float64, err error)
	close() error
}

type configService interface {
	launch(handler *APIHandler, addr string)
	stop()
}
