// Package logger configures the run log shared by all pipeline stages.
//
// Every run writes its lines both to stdout and to a duplicates.log file
// at the root of the scanned directory. The file is truncated at startup,
// so it always describes the most recent run.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileName is the name of the log file created in the scan root.
const FileName = "duplicates.log"

// lineFormatter renders entries as "[2006-01-02 15:04:05] message" lines.
// Levels are not rendered; the log reads as a plain narrative of the run.
type lineFormatter struct{}

func (lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return fmt.Appendf(nil, "[%s] %s\n", entry.Time.Format("2006-01-02 15:04:05"), entry.Message), nil
}

// New creates a logger writing to stdout and to FileName inside dir.
// An existing log file is truncated. The returned closer owns the file
// handle and must be closed after the last line is written.
func New(dir string, verbose bool) (*logrus.Logger, io.Closer, error) {
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return nil, nil, fmt.Errorf("creating log file: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(lineFormatter{})
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log, f, nil
}
