package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
)

// the two pokes external programs can deliver
const (
	sigToggleFullscreen = syscall.SIGUSR1
	sigOpenConfig       = syscall.SIGUSR2
)

var errAlreadyRunning = errors.New("another instance is running")

// pidAlive reports whether the pid exists (signal 0 probe)
func pidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func readPidFile(path string) (int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, errors.Wrapf(err, "bad pid file %s", path)
	}
	return pid, nil
}

// writePidFile claims the marker for this process. A marker naming a
// live pid refuses the claim; a stale one is overwritten.
func writePidFile(path string) error {
	if pid, err := readPidFile(path); err == nil {
		if pidAlive(pid) {
			return errors.Wrapf(errAlreadyRunning, "pid %d", pid)
		}
		// stale marker from a dead run
	}

	dir := filepath.Dir(path)
	tmp, err := ioutil.TempFile(dir, ".pid-*")
	if err != nil {
		return errors.Wrap(err, "pid file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write([]byte(fmt.Sprintf("%d\n", os.Getpid()))); err != nil {
		tmp.Close()
		return errors.Wrap(err, "pid file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "pid file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "pid file")
}

func removePidFile(path string) {
	os.Remove(path)
}

func startSignalBridge(rt runtimeConfig) {
	sigc := make(chan os.Signal, 4)
	signal.Notify(sigc, sigToggleFullscreen, sigOpenConfig)
	wg.Add(1)
	go runSignalBridge(rt, sigc)
}

// runSignalBridge only translates and enqueues, the session loop does
// the actual work
func runSignalBridge(rt runtimeConfig, sigc <-chan os.Signal) {
	defer wg.Done()
	logger := &ThreadLogger{name: "Signals"}
	defer func() {
		logger.Println("exiting runSignalBridge")
	}()

	comms := rt.comms

	for true {
		select {
		case <-comms.quit:
			logger.Println("quit from runSignalBridge")
			return
		case sig := <-sigc:
			var msg sessionMsg
			switch sig {
			case sigToggleFullscreen:
				msg = toggleFullscreenMsg()
			case sigOpenConfig:
				msg = openConfigMsg()
			default:
				continue
			}
			logger.Printf("external trigger: %v", sig)
			// never block in a signal path
			select {
			case comms.session <- msg:
			default:
				logger.Println("session queue full, trigger dropped")
			}
		}
	}
}
