package main

import (
	"flag"
	"io/ioutil"
	"log"
	"strconv"
	"strings"
	"syscall"
)

// panelctl pokes a running avpanel daemon:
//   panelctl [-pidfile=path] fullscreen   toggle the fullscreen state
//   panelctl [-pidfile=path] config       open the config dialog

func readPid(path string) (int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func main() {
	pidFile := flag.String("pidfile", "/var/run/avpanel.pid", "daemon pid file")
	flag.Parse()

	var sig syscall.Signal
	switch flag.Arg(0) {
	case "fullscreen":
		sig = syscall.SIGUSR1
	case "config":
		sig = syscall.SIGUSR2
	default:
		log.Fatalf("usage: panelctl [-pidfile=path] fullscreen|config")
	}

	pid, err := readPid(*pidFile)
	if err != nil {
		log.Fatalf("avpanel is not running (%s)", err.Error())
	}

	// a marker naming a dead pid is stale
	if err := syscall.Kill(pid, syscall.Signal(0)); err != nil {
		log.Fatalf("avpanel is not running (stale pid %d)", pid)
	}

	if err := syscall.Kill(pid, sig); err != nil {
		log.Fatalf("signal failed: %s", err.Error())
	}
	log.Printf("sent %v to %d", sig, pid)
}
