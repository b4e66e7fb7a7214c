// Playlistpop - Playlist Popularity Ranking and Submission Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlistpop

package logging

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// BadgerLogger routes BadgerDB's printf-style logger through zerolog.
// It satisfies badger.Logger without importing badger.
//
// Usage:
//
//	opts := badger.DefaultOptions(path)
//	opts.Logger = logging.NewBadgerLogger(zerolog.WarnLevel)
type BadgerLogger struct {
	logger zerolog.Logger
}

// NewBadgerLogger creates a BadgerLogger on the global logger with a
// "badger" component field. Messages below minLevel are dropped; badger is
// chatty at info.
func NewBadgerLogger(minLevel zerolog.Level) *BadgerLogger {
	return NewBadgerLoggerWithLogger(WithComponent("badger").Level(minLevel))
}

// NewBadgerLoggerWithLogger creates a BadgerLogger on a specific logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerLoggerWithLogger(logger zerolog.Logger) *BadgerLogger {
	return &BadgerLogger{logger: logger}
}

// Errorf logs at error level.
func (b *BadgerLogger) Errorf(format string, args ...interface{}) {
	b.log(b.logger.Error(), format, args)
}

// Warningf logs at warn level.
func (b *BadgerLogger) Warningf(format string, args ...interface{}) {
	b.log(b.logger.Warn(), format, args)
}

// Infof logs at info level.
func (b *BadgerLogger) Infof(format string, args ...interface{}) {
	b.log(b.logger.Info(), format, args)
}

// Debugf logs at debug level.
func (b *BadgerLogger) Debugf(format string, args ...interface{}) {
	b.log(b.logger.Debug(), format, args)
}

// log trims badger's trailing newlines so console output stays one line per event.
func (b *BadgerLogger) log(event *zerolog.Event, format string, args []interface{}) {
	if event == nil {
		return
	}
	event.Msg(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}
