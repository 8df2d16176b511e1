package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// avpanel -config={config file}

// how long shutdown waits for the workers before giving up
const shutdownTimeout = 5 * time.Second

func main() {
	// read config information
	settings := initSettingsFromFlags()

	logFile, err := setupLogging(settings, false)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer logFile.Close()

	if settings.GetBool("debug_dump") {
		settings.Dump()
	}

	rt := initRuntime(settings)

	// claim the marker so panelctl and second instances can find us
	pidPath := settings.GetString("pidFile")
	if err := writePidFile(pidPath); err != nil {
		log.Fatalf("pid file: %s", err.Error())
	}
	defer removePidFile(pidPath)

	startLEDController(rt)
	startSession(rt)
	startPoller(rt)
	startWatchKeys(rt)
	startSignalBridge(rt)
	startConfigService(rt)

	// SIGINT/SIGTERM also end the session
	term := make(chan os.Signal, 1)
	signal.Notify(term, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-term:
			log.Printf("shutdown on %v", s)
			rt.comms.shutdown()
		case <-rt.comms.quit:
		}
	}()

	// join the workers, with a limit so a stuck one can't wedge us
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	<-rt.comms.quit
	select {
	case <-done:
		log.Println("all workers stopped")
	case <-time.After(shutdownTimeout):
		log.Println("workers did not stop in time")
	}
}
