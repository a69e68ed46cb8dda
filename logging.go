package main

import (
	"os"
	"strings"

	"github.com/kpango/glg"
)

var logFile *os.File

// ConfigureLogging sets the glg level modes based on the configured level name
// and optionally mirrors all output to a log file.
func ConfigureLogging(level, path string) {

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			glg.Errorf("Failed to open log file %s: %s", path, err.Error())
		} else {
			logFile = f
			glg.Get().SetMode(glg.BOTH).AddWriter(f)
		}
	}

	switch strings.ToLower(level) {
	case "debug":
	case "info":
		glg.Get().SetLevelMode(glg.DEBG, glg.NONE)
	case "warning", "warn":
		glg.Get().
			SetLevelMode(glg.DEBG, glg.NONE).
			SetLevelMode(glg.INFO, glg.NONE)
	case "error":
		glg.Get().
			SetLevelMode(glg.DEBG, glg.NONE).
			SetLevelMode(glg.INFO, glg.NONE).
			SetLevelMode(glg.WARN, glg.NONE)
	default:
		glg.Get().SetLevelMode(glg.DEBG, glg.NONE)
	}
}

// CloseLogger releases the log file if one was configured.
func CloseLogger() {
	if logFile != nil {
		logFile.Close()
	}
}
