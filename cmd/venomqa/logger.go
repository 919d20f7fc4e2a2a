package main

import (
	"os"

	"github.com/namanag97/venomqa-sub007/pkg/venomlog"
)

// initLogger resolves CLI flags against environment variable fallbacks
// and initializes the package logger. Priority: flag > env var >
// default.
func initLogger(cliLevel, cliFile, cliFormat string) (level, file string, cleanup func(), err error) {
	level = cliLevel
	if level == "" {
		level = os.Getenv("VENOMQA_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}

	file = cliFile
	if file == "" {
		file = os.Getenv("VENOMQA_LOG_FILE")
	}

	format := cliFormat
	if format == "" {
		format = os.Getenv("VENOMQA_LOG_FORMAT")
	}
	if format == "" {
		format = "simple"
	}

	var output *os.File
	if file != "" {
		f, cleanupFn, openErr := venomlog.OpenLogFile(file)
		if openErr != nil {
			return "", "", nil, openErr
		}
		output = f
		cleanup = cleanupFn
	} else {
		output = os.Stderr
	}

	venomlog.Init(venomlog.ParseLevel(level), output, format)
	return level, file, cleanup, nil
}
