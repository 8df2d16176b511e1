package main

import (
	"fmt"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// flogger is what the worker goroutines log through so tests
// and fakes can tag their output
type flogger interface {
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// ThreadLogger - a flogger that prefixes the goroutine's name
type ThreadLogger struct {
	name string
}

func (t *ThreadLogger) Printf(format string, v ...interface{}) {
	log.Printf("[%s] %s", t.name, fmt.Sprintf(format, v...))
}

func (t *ThreadLogger) Println(v ...interface{}) {
	log.Printf("[%s] %s", t.name, fmt.Sprint(v...))
}

func setupLogging(settings configSettings, console bool) (*lumberjack.Logger, error) {
	logFile := &lumberjack.Logger{
		Filename:   settings.GetString("logFile"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	}
	if !console {
		log.SetOutput(logFile)
	}
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return logFile, nil
}
