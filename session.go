package main

type sessionState int

const (
	stateWindowed sessionState = iota
	stateFullscreen
	stateConfigOpen
)

func (s sessionState) String() string {
	switch s {
	case stateWindowed:
		return "windowed"
	case stateFullscreen:
		return "fullscreen"
	case stateConfigOpen:
		return "config"
	default:
		return "unknown"
	}
}

const (
	cmdToggleFullscreen = iota
	cmdOpenConfig
	cmdCloseConfig
	cmdKey
	cmdPTT
	cmdExit
	cmdReloadPins
)

type sessionMsg struct {
	cmd     int
	key     rune
	pressed bool
}

func toggleFullscreenMsg() sessionMsg {
	return sessionMsg{cmd: cmdToggleFullscreen}
}

func openConfigMsg() sessionMsg {
	return sessionMsg{cmd: cmdOpenConfig}
}

func closeConfigMsg() sessionMsg {
	return sessionMsg{cmd: cmdCloseConfig}
}

func keyMsg(key rune) sessionMsg {
	return sessionMsg{cmd: cmdKey, key: key}
}

func pttMsg(pressed bool) sessionMsg {
	return sessionMsg{cmd: cmdPTT, pressed: pressed}
}

func exitMsg() sessionMsg {
	return sessionMsg{cmd: cmdExit}
}

func reloadPinsMsg() sessionMsg {
	return sessionMsg{cmd: cmdReloadPins}
}

// how many recent keys the unlock sequence can span
const keyRingSize = 3

// sessionController owns the display session state. Only runSession
// touches it, everyone else sends messages.
type sessionController struct {
	state           sessionState
	returnState     sessionState
	teacherUnlocked bool

	keyRing          [keyRingSize]rune
	awaitingPassword bool
	passwordBuf      []rune

	exitKeys string
	password string
	logger   flogger
}

func newSessionController(settings configSettings, logger flogger) *sessionController {
	start := stateWindowed
	if settings.GetBool("startFullscreen") {
		start = stateFullscreen
	}
	return &sessionController{
		state:    start,
		exitKeys: settings.GetString("exitKeys"),
		password: settings.GetString("teacherPassword"),
		logger:   logger,
	}
}

func (s *sessionController) toggleFullscreen() {
	switch s.state {
	case stateWindowed:
		s.state = stateFullscreen
	case stateFullscreen:
		s.state = stateWindowed
	default:
		// the config dialog holds the screen
		s.logger.Printf("ignoring fullscreen toggle while %s", s.state)
	}
}

func (s *sessionController) openConfig() {
	if s.state == stateConfigOpen {
		s.logger.Println("config dialog already open")
		return
	}
	s.returnState = s.state
	s.state = stateConfigOpen
}

func (s *sessionController) closeConfig() {
	if s.state != stateConfigOpen {
		s.logger.Printf("ignoring config close while %s", s.state)
		return
	}
	s.state = s.returnState
}

func (s *sessionController) handleKey(key rune) {
	if s.awaitingPassword {
		switch key {
		case '\r', '\n':
			if string(s.passwordBuf) == s.password {
				s.teacherUnlocked = true
				s.logger.Println("teacher unlocked")
			} else {
				s.logger.Println("wrong password")
			}
			s.awaitingPassword = false
			s.passwordBuf = nil
		case 27: // escape cancels the prompt
			s.awaitingPassword = false
			s.passwordBuf = nil
		default:
			s.passwordBuf = append(s.passwordBuf, key)
		}
		return
	}

	// roll the ring and check the unlock sequence
	copy(s.keyRing[:], s.keyRing[1:])
	s.keyRing[keyRingSize-1] = key
	if string(s.keyRing[:]) == s.exitKeys {
		s.logger.Println("unlock sequence, prompting for password")
		s.awaitingPassword = true
		s.passwordBuf = nil
		s.keyRing = [keyRingSize]rune{}
	}
}

// requestExit reports whether the session may end
func (s *sessionController) requestExit() bool {
	if !s.teacherUnlocked {
		s.logger.Println("exit refused, teacher locked")
		return false
	}
	return true
}

// apply runs one message against the state machine and reports
// whether the session should end
func (s *sessionController) apply(msg sessionMsg) bool {
	switch msg.cmd {
	case cmdToggleFullscreen:
		s.toggleFullscreen()
	case cmdOpenConfig:
		s.openConfig()
	case cmdCloseConfig:
		s.closeConfig()
	case cmdKey:
		s.handleKey(msg.key)
	case cmdExit:
		return s.requestExit()
	}
	return false
}
