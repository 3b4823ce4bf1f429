// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/etzwallet/walletui/anim"
	"github.com/etzwallet/walletui/numfmt"
)

const (
	defaultLogFilename = "walletui.log"
	defaultLogLevel    = "info"
	defaultMaxLogRolls = 8
	defaultLocale      = "en-US"
	defaultUnit        = "ETZ"
	defaultFiat        = "USD"
)

type config struct {
	AppDataDir   string        `short:"A" long:"appdata" description:"Path to application home directory"`
	LogFile      string        `long:"logfile" description:"File name of the log file, relative to appdata"`
	DebugLevel   string        `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical} or SUBSYS=level pairs"`
	MaxLogRolls  int           `long:"maxlogrolls" description:"Maximum number of rolled log files to keep"`
	Locale       string        `long:"locale" description:"BCP 47 tag of the locale used to format amounts"`
	Unit         string        `long:"unit" description:"Code of the wallet currency"`
	Fiat         string        `long:"fiat" description:"ISO 4217 code of the currency balances are converted to"`
	Balance      string        `long:"balance" description:"Starting balance of the demo wallet"`
	Rate         string        `long:"rate" description:"Exchange rate from the wallet currency to fiat"`
	AnimDuration time.Duration `long:"animduration" description:"Length of balance animations"`

	locale  language.Tag
	balance decimal.Decimal
	rate    decimal.Decimal
}

func defaultAppDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "walletui")
}

// loadConfig parses the command line arguments. Help requests are returned
// as a *flags.Error of type flags.ErrHelp.
func loadConfig(args []string) (*config, error) {
	cfg := config{
		AppDataDir:   defaultAppDataDir(),
		LogFile:      defaultLogFilename,
		DebugLevel:   defaultLogLevel,
		MaxLogRolls:  defaultMaxLogRolls,
		Locale:       defaultLocale,
		Unit:         defaultUnit,
		Fiat:         defaultFiat,
		Balance:      "0",
		Rate:         "1",
		AnimDuration: anim.DefaultDuration,
	}
	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	cfg.AppDataDir = cleanAndExpandPath(cfg.AppDataDir)
	if !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(cfg.AppDataDir, cfg.LogFile)
	}
	if cfg.MaxLogRolls < 0 {
		return nil, fmt.Errorf("invalid maxlogrolls %d", cfg.MaxLogRolls)
	}
	if cfg.AnimDuration < 0 {
		return nil, fmt.Errorf("invalid animduration %v", cfg.AnimDuration)
	}

	var err error
	if cfg.locale, err = language.Parse(cfg.Locale); err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}
	cfg.Unit = strings.ToUpper(strings.TrimSpace(cfg.Unit))
	if cfg.Unit == "" {
		return nil, errors.New("empty unit")
	}
	cfg.Fiat = strings.ToUpper(cfg.Fiat)
	if _, err := numfmt.NewCurrency(cfg.locale, cfg.Fiat); err != nil {
		return nil, err
	}
	if cfg.balance, err = decimal.NewFromString(cfg.Balance); err != nil {
		return nil, fmt.Errorf("invalid balance %q: %w", cfg.Balance, err)
	}
	if cfg.balance.IsNegative() {
		return nil, fmt.Errorf("negative balance %s", cfg.balance)
	}
	if cfg.rate, err = decimal.NewFromString(cfg.Rate); err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", cfg.Rate, err)
	}
	return &cfg, nil
}

// cleanAndExpandPath expands environment variables and a leading ~ in path
// and cleans the result.
func cleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}
	path = os.ExpandEnv(path)
	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}
	path = path[1:]

	seps := string(os.PathSeparator)
	if runtime.GOOS == "windows" {
		seps += "/"
	}
	name := ""
	if i := strings.IndexAny(path, seps); i != -1 {
		name, path = path[:i], path[i:]
	}
	var (
		u   *user.User
		err error
	)
	if name == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(name)
	}
	home := "."
	if err == nil && u.HomeDir != "" {
		home = u.HomeDir
	}
	return filepath.Join(home, path)
}
