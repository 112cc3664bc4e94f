// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The runcfg Authors

// Package summary implements the append-only text-summary sink associated
// with a run directory. Records are JSON lines written through zerolog, so
// the artifact is readable by humans and trivially parseable by tools.
package summary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FileName is the summary artifact inside a run's configs directory.
const FileName = "_summary.log"

// Writer appends text-summary records to the sink file of one run
// directory. Create it with NewWriter and Close it when the dump is done.
type Writer struct {
	file  *os.File
	log   zerolog.Logger
	runID string
}

// NewWriter opens (or creates) the summary sink under dir in append mode.
// Every record written by this Writer carries a fresh run id.
func NewWriter(dir string) (*Writer, error) {
	file, err := os.OpenFile(
		filepath.Join(dir, FileName),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening summary sink: %w", err)
	}

	runID := newRunID()
	log := zerolog.New(file).With().
		Str("run_id", runID).
		Timestamp().
		Logger()

	return &Writer{file: file, log: log, runID: runID}, nil
}

// RunID returns the identifier stamped on every record of this Writer.
func (w *Writer) RunID() string {
	return w.runID
}

// AddText appends one text record with the given tag and step index.
func (w *Writer) AddText(tag, text string, step int) {
	w.log.Log().
		Str("tag", tag).
		Int("step", step).
		Str("text", text).
		Send()
}

// Close releases the sink file handle.
func (w *Writer) Close() error {
	return w.file.Close()
}

func newRunID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
