// Package persistence saves measurement results to disk.
package persistence

import (
	"fmt"
	"os"

	"github.com/netwatch/netwatch/pkg/ping/model"
)

// SampleLog is the append-only file where ping samples are saved, one line
// per sample.
type SampleLog struct {
	fp *os.File
}

// OpenSampleLog opens the sample log at path for appending, creating it if
// necessary.
func OpenSampleLog(path string) (*SampleLog, error) {
	fp, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &SampleLog{fp: fp}, nil
}

// Append writes one sample as a single "<timestamp> <ms>" line and syncs
// the file, so every sample survives an abrupt exit.
func (l *SampleLog) Append(s model.Sample) error {
	if _, err := fmt.Fprintf(l.fp, "%s\n", s); err != nil {
		return err
	}
	return l.fp.Sync()
}

// Close closes the underlying file.
func (l *SampleLog) Close() error {
	return l.fp.Close()
}
