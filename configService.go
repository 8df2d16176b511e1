package main

import (
	"crypto/subtle"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"
)

type configResponse struct {
	Response string            `json:"response"`
	Error    string            `json:"error,omitempty"`
	Backend  string            `json:"backend,omitempty"`
	Session  string            `json:"session,omitempty"`
	Unlocked bool              `json:"unlocked"`
	Pins     map[string]string `json:"pins,omitempty"`
	Mic      int               `json:"mic"`
	Quality  string            `json:"quality,omitempty"`
	TempC    float64           `json:"tempC"`
	Stale    []int             `json:"stale,omitempty"`
	Offline  []int             `json:"offline,omitempty"`
}

// APIHandler - settings for the thing that handles HTTP requests
type APIHandler struct {
	rt        runtimeConfig
	secret    string
	user      string
	realm     string
	rolesPath string

	mu     sync.Mutex
	status statusSnapshot
	have   bool
}

// NewHandler - create a new API handler
func NewHandler(rt runtimeConfig) APIHandler {
	return APIHandler{
		rt:        rt,
		secret:    rt.settings.GetString("httpSecret"),
		user:      rt.settings.GetString("httpUser"),
		realm:     "avpanel",
		rolesPath: rt.settings.GetString("pinConfig"),
	}
}

// BasicAuth binds to a object instance, and without accessors it
// will bind the string values instead of references
func (m *APIHandler) getUser() string {
	return m.user
}

func (m *APIHandler) getSecret() string {
	return m.secret
}

func (m *APIHandler) getRealm() string {
	return m.realm
}

// BasicAuth - provide a middleware to authenticate users
func (m *APIHandler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(m.getUser())) != 1 ||
			subtle.ConstantTimeCompare([]byte(pass), []byte(m.getSecret())) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+m.getRealm()+`"`)
			w.WriteHeader(401)
			w.Write([]byte("Unauthorised.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *APIHandler) setStatus(s statusSnapshot) {
	m.mu.Lock()
	m.status = s
	m.have = true
	m.mu.Unlock()
}

func (m *APIHandler) getStatus() configResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.have {
		return configResponse{Response: "BAD", Error: "no session data yet"}
	}

	upd := m.status.update
	var stale, offline []int
	for ch := 0; ch < adcChannels; ch++ {
		if upd.stale[ch] {
			stale = append(stale, ch)
		}
		if upd.offline[ch] {
			offline = append(offline, ch)
		}
	}
	return configResponse{
		Response: "OK",
		Backend:  upd.backend,
		Session:  m.status.session,
		Unlocked: m.status.unlocked,
		Pins:     m.status.pins,
		Mic:      upd.mic,
		Quality:  upd.quality.String(),
		TempC:    upd.tempC,
		Stale:    stale,
		Offline:  offline,
	}
}

func writeAnswer(w http.ResponseWriter, cr configResponse) {
	output, _ := json.Marshal(cr)
	w.Write(output)
}

func (m *APIHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, m.getStatus())
}

func (m *APIHandler) apiPins(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	pins := m.status.pins
	m.mu.Unlock()
	writeAnswer(w, configResponse{Response: "OK", Pins: pins})
}

func (m *APIHandler) apiSetPins(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		writeAnswer(w, configResponse{Response: "BAD", Error: err.Error()})
		return
	}

	roles, err := pinRolesFromJSON(body)
	if err == nil {
		err = roles.validate()
	}
	if err == nil {
		err = roles.save(m.rolesPath)
	}
	if err != nil {
		writeAnswer(w, configResponse{Response: "BAD", Error: err.Error()})
		return
	}

	// tell the session loop, but never block a request on it
	select {
	case m.rt.comms.session <- reloadPinsMsg():
	default:
	}
	writeAnswer(w, configResponse{Response: "OK", Pins: roles.asMap()})
}

func (m *APIHandler) apiError(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(500)
	w.Write([]byte("Error\n"))
}

func startConfigService(rt runtimeConfig) {
	wg.Add(1)
	go runConfigService(rt)
}

func runConfigService(rt runtimeConfig) {
	defer wg.Done()
	logger := &ThreadLogger{name: "ConfigSvc"}
	defer func() {
		logger.Println("exiting runConfigService")
	}()

	handler := NewHandler(rt)

	rt.configService.launch(&handler, rt.settings.GetString("httpAddr"))

	logger.Println("starting config service comms loop")
	comms := rt.comms

	// comms loop, listen for status snapshots
	for true {
		select {
		case <-comms.quit:
			logger.Println("quit from config service")
			// stop the server
			rt.configService.stop()
			return
		case msg := <-comms.configSvc:
			handler.setStatus(msg.status)
		default:
			rt.clock.Sleep(dSvcSleep)
		}
	}
}
