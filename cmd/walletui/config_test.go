// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"

	"github.com/etzwallet/walletui/anim"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Unit != defaultUnit || cfg.Fiat != defaultFiat {
		t.Errorf("unit %s fiat %s", cfg.Unit, cfg.Fiat)
	}
	if cfg.locale.String() != defaultLocale {
		t.Errorf("locale is %v", cfg.locale)
	}
	if !cfg.balance.IsZero() || !cfg.rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("balance %s rate %s", cfg.balance, cfg.rate)
	}
	if cfg.AnimDuration != anim.DefaultDuration {
		t.Errorf("animation duration is %v", cfg.AnimDuration)
	}
	if want := filepath.Join(cfg.AppDataDir, defaultLogFilename); cfg.LogFile != want {
		t.Errorf("log file is %s, want %s", cfg.LogFile, want)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	dir := t.TempDir()
	cfg, err := loadConfig([]string{
		"-A", dir,
		"--unit=btc",
		"--fiat=eur",
		"--locale=de-DE",
		"--balance=12.5",
		"--rate=2",
		"--animduration=1s",
		"--maxlogrolls=2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Unit != "BTC" || cfg.Fiat != "EUR" {
		t.Errorf("unit %s fiat %s", cfg.Unit, cfg.Fiat)
	}
	if cfg.locale.String() != "de-DE" {
		t.Errorf("locale is %v", cfg.locale)
	}
	if !cfg.balance.Equal(decimal.RequireFromString("12.5")) || !cfg.rate.Equal(decimal.NewFromInt(2)) {
		t.Errorf("balance %s rate %s", cfg.balance, cfg.rate)
	}
	if cfg.AnimDuration != time.Second || cfg.MaxLogRolls != 2 {
		t.Errorf("animduration %v maxlogrolls %d", cfg.AnimDuration, cfg.MaxLogRolls)
	}
	if want := filepath.Join(dir, defaultLogFilename); cfg.LogFile != want {
		t.Errorf("log file is %s, want %s", cfg.LogFile, want)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"balance", []string{"--balance=abc"}},
		{"negative balance", []string{"--balance=-1"}},
		{"rate", []string{"--rate=x"}},
		{"locale", []string{"--locale=!!"}},
		{"fiat", []string{"--fiat=DOLLARS"}},
		{"unit", []string{"--unit= "}},
		{"maxlogrolls", []string{"--maxlogrolls=-1"}},
		{"animduration", []string{"--animduration=-1s"}},
		{"unknown flag", []string{"--nosuchflag"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(tt.args); err == nil {
				t.Errorf("loadConfig(%q) succeeded", tt.args)
			}
		})
	}
}

func TestLoadConfigHelp(t *testing.T) {
	_, err := loadConfig([]string{"--help"})
	var e *flags.Error
	if !errors.As(err, &e) || e.Type != flags.ErrHelp {
		t.Fatalf("got %v, want help error", err)
	}
}

func TestCleanAndExpandPath(t *testing.T) {
	root := t.TempDir()
	t.Setenv("WALLETUI_TEST_DIR", root)
	if got, want := cleanAndExpandPath("$WALLETUI_TEST_DIR/a/../b"), filepath.Join(root, "b"); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got := cleanAndExpandPath(""); got != "" {
		t.Errorf("empty path expanded to %q", got)
	}
}
