package main

// logKeys - scripted key source for tests
type logKeys struct {
	script [][]keyEvent
	pos    int
	closed bool
}

func (lk *logKeys) initKeys(settings configSettings) error {
	return nil
}

func (lk *logKeys) closeKeys() {
	lk.closed = true
}

func (lk *logKeys) readKeys(rt runtimeConfig) ([]keyEvent, error) {
	if lk.pos >= len(lk.script) {
		return nil, nil
	}
	events := lk.script[lk.pos]
	lk.pos++
	return events, nil
}
