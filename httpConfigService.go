package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/net/context"
)

type httpConfigService struct {
	srv     *http.Server
	handler *APIHandler
}

func (h *httpConfigService) launch(handler *APIHandler, addr string) {
	h.handler = handler
	// start a web server that handles JSON requests
	r := mux.NewRouter()

	// auth middleware
	r.Use(handler.BasicAuth)
	// api server
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	r.HandleFunc("/api/pins", handler.apiPins).Methods("GET")
	r.HandleFunc("/api/pins", handler.apiSetPins).Methods("POST")

	h.srv = &http.Server{Addr: addr, Handler: r}

	// add to the wg
	wg.Add(1)

	// launch the server
	go func() {
		defer wg.Done()
		log.Println("starting config service http server")
		err := h.srv.ListenAndServe()
		log.Print(err)
		log.Print("Exiting config service")
	}()
}

func (h *httpConfigService) stop() {
	if h.srv != nil {
		h.srv.Shutdown(context.Background())
	}
}
