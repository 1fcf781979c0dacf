package api

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Logger()

	if strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// SetLogOutput changes the output of the package logger.
func SetLogOutput(w io.Writer) {
	logger = logger.Output(w)
}

// SetLogger overrides the package logger.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// DisableLogging silences the package logger.
func DisableLogging() {
	logger = zerolog.Nop()
}
