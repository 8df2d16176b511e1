package main

// testBackend - scriptable converter for tests
type testBackend struct {
	bname   string
	openErr error
	opened  bool
	closed  bool
	reads   int
	volts   map[int]float64
	queue   map[int][]error
}

func newTestBackend(name string) *testBackend {
	return &testBackend{
		bname: name,
		volts: make(map[int]float64),
		queue: make(map[int][]error),
	}
}

func (b *testBackend) name() string {
	return b.bname
}

func (b *testBackend) open(settings configSettings) error {
	if b.openErr != nil {
		return b.openErr
	}
	b.opened = true
	return nil
}

func (b *testBackend) close() error {
	b.opened = false
	b.closed = true
	return nil
}

// setVolts pins a channel at a steady voltage
func (b *testBackend) setVolts(channel int, volts float64) {
	b.volts[channel] = volts
}

// failNext queues errors returned ahead of the steady value
func (b *testBackend) failNext(channel int, errs ...error) {
	b.queue[channel] = append(b.queue[channel], errs...)
}

func (b *testBackend) readChannel(channel int) (int, float64, error) {
	if !b.opened {
		return 0, 0, errNotInitialized
	}
	b.reads++
	if q := b.queue[channel]; len(q) > 0 {
		err := q[0]
		b.queue[channel] = q[1:]
		return 0, 0, err
	}
	v := b.volts[channel]
	return int(v / 4.096 * 32768), v, nil
}
