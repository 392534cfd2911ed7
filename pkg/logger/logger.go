package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger at the configured level; unparseable
// levels fall back to info.
func New(level string) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)

	return log
}
