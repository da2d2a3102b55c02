// Package logger builds the process logger from configuration.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/iamvkosarev/stellar-archive/config"
	"github.com/sirupsen/logrus"
)

const (
	formatJSON = "json"
	formatText = "text"
)

// New returns a logrus logger writing to w (stdout when nil). Unknown levels fall back
// to info, unknown formats to text.
func New(cfg config.Log, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stdout
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(ParseLevel(cfg.Level))

	switch strings.ToLower(cfg.Format) {
	case formatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// Discard returns a logger that drops everything, for tests and one-shot commands.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
