package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging sets the logrus level and, when file is set, tees output to a
// size-rotated log file. The returned closer is nil without a file.
func setupLogging(level, file string) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	if file == "" {
		logrus.SetOutput(os.Stderr)
		return nil, nil
	}
	rotated := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, rotated))
	return rotated, nil
}
