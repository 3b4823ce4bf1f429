// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"

	"github.com/etzwallet/walletui/anim"
	"github.com/etzwallet/walletui/label"
	"github.com/etzwallet/walletui/send"
)

// logWriter writes to standard output and, once initialized, the log
// rotator. Only one logWriter may be in use since the rotator is not safe
// for concurrent writes.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	if logRotator == nil {
		return os.Stdout.Write(p)
	}
	os.Stdout.Write(p)
	return logRotator.Write(p)
}

var (
	backendLog = slog.NewBackend(logWriter{})
	// logRotator is closed on shutdown. Use initLogRotator to set it.
	logRotator *rotator.Rotator

	log = backendLog.Logger("MAIN")

	subsystemLoggers = map[string]slog.Logger{
		"MAIN": log,
		"ANIM": backendLog.Logger("ANIM"),
		"WDGT": backendLog.Logger("WDGT"),
		"SEND": backendLog.Logger("SEND"),
	}
)

func init() {
	anim.UseLogger(subsystemLoggers["ANIM"])
	label.UseLogger(subsystemLoggers["WDGT"])
	send.UseLogger(subsystemLoggers["SEND"])
}

// initLogRotator makes the log write to logFile, rolling it into the same
// directory. It must be called before logging starts.
func initLogRotator(logFile string, maxRolls int) error {
	dir, _ := filepath.Split(logFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 32*1024, false, maxRolls)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}
	logRotator = r
	return nil
}

func setLogLevel(subsys string, lvl slog.Level) {
	if l, ok := subsystemLoggers[subsys]; ok {
		l.SetLevel(lvl)
	}
}

func setLogLevels(lvl slog.Level) {
	for subsys := range subsystemLoggers {
		setLogLevel(subsys, lvl)
	}
}

func supportedSubsystems() []string {
	subs := make([]string, 0, len(subsystemLoggers))
	for s := range subsystemLoggers {
		subs = append(subs, s)
	}
	sort.Strings(subs)
	return subs
}

// parseAndSetDebugLevels accepts either a single level for all subsystems
// or a comma separated list of SUBSYS=level pairs.
func parseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		lvl, ok := slog.LevelFromString(debugLevel)
		if !ok {
			return fmt.Errorf("invalid debug level %q", debugLevel)
		}
		setLogLevels(lvl)
		return nil
	}
	for _, pair := range strings.Split(debugLevel, ",") {
		subsys, level, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid SUBSYS=level pair %q", pair)
		}
		if _, exists := subsystemLoggers[subsys]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is invalid -- supported subsystems %v",
				subsys, supportedSubsystems())
		}
		lvl, ok := slog.LevelFromString(level)
		if !ok {
			return fmt.Errorf("invalid debug level %q for subsystem %s", level, subsys)
		}
		setLogLevel(subsys, lvl)
	}
	return nil
}
