// Package config loads runtime settings from defaults, an optional config
// file, RETROCALC_* environment variables and command-line flags, in that
// order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// EnvPrefix prefixes every environment variable, e.g. RETROCALC_DISPLAY_LOCALE.
const EnvPrefix = "RETROCALC"

// Keys.
const (
	KeyWindowScale     = "window.scale"
	KeyWindowTPS       = "window.tps"
	KeyDisplayLocale   = "display.locale"
	KeyNoticeDuration  = "notice.duration"
	KeyNoticeCancel    = "notice.cancel-on-input"
	KeyPressDuration   = "press.duration"
	KeyHeadless        = "headless.enabled"
	KeyHeadlessHz      = "headless.hz"
	KeyHeadlessTicks   = "headless.ticks"
	KeyHeadlessScript  = "headless.script"
	KeyExitAfterScript = "headless.exit-after-script"
	KeyLogVerbosity    = "log.verbosity"
)

// Config is the resolved runtime configuration.
type Config struct {
	Scale int
	TPS   int

	Locale language.Tag

	NoticeDuration      time.Duration
	CancelNoticeOnInput bool
	PressDuration       time.Duration

	Headless        bool
	Hz              int
	Ticks           uint64
	Script          []string
	ExitAfterScript bool

	Verbosity int

	// File is the config file that was read, if any.
	File string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyWindowScale, 2)
	v.SetDefault(KeyWindowTPS, 60)
	v.SetDefault(KeyDisplayLocale, "en-US")
	v.SetDefault(KeyNoticeDuration, 2*time.Second)
	v.SetDefault(KeyNoticeCancel, false)
	v.SetDefault(KeyPressDuration, 100*time.Millisecond)
	v.SetDefault(KeyHeadless, false)
	v.SetDefault(KeyHeadlessHz, 60)
	v.SetDefault(KeyHeadlessTicks, 0)
	v.SetDefault(KeyHeadlessScript, "")
	v.SetDefault(KeyExitAfterScript, false)
	v.SetDefault(KeyLogVerbosity, 0)
}

// flags maps flag names to config keys.
var flags = []struct {
	name, key string
}{
	{"scale", KeyWindowScale},
	{"tps", KeyWindowTPS},
	{"locale", KeyDisplayLocale},
	{"notice-duration", KeyNoticeDuration},
	{"cancel-notice-on-input", KeyNoticeCancel},
	{"press-duration", KeyPressDuration},
	{"headless", KeyHeadless},
	{"hz", KeyHeadlessHz},
	{"ticks", KeyHeadlessTicks},
	{"script", KeyHeadlessScript},
	{"exit-after-script", KeyExitAfterScript},
	{"verbosity", KeyLogVerbosity},
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Config file (yaml, json, toml, ...).")
	fs.Int("scale", 2, "Window scale factor.")
	fs.Int("tps", 60, "Window updates per second.")
	fs.String("locale", "en-US", "BCP 47 locale used for digit grouping.")
	fs.Duration("notice-duration", 2*time.Second, "How long a transient message stays on screen.")
	fs.Bool("cancel-notice-on-input", false, "Cancel pending message reverts when a button is pressed.")
	fs.Duration("press-duration", 100*time.Millisecond, "How long a pressed button stays highlighted.")
	fs.Bool("headless", false, "Run without a window.")
	fs.Int("hz", 60, "Tick rate in headless mode.")
	fs.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	fs.String("script", "", "Buttons to press in headless mode, separated by commas or spaces.")
	fs.Bool("exit-after-script", false, "Stop once the script has run and all messages have cleared.")
	fs.IntP("verbosity", "v", 0, "Log verbosity.")
	return fs
}

// Load parses args (without the program name) and resolves the configuration.
// It returns pflag.ErrHelp when -h or --help was given.
func Load(name string, args []string) (Config, error) {
	fs := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, f := range flags {
		if err := v.BindPFlag(f.key, fs.Lookup(f.name)); err != nil {
			return Config{}, fmt.Errorf("bind flag %q: %w", f.name, err)
		}
	}

	file, _ := fs.GetString("config")
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return Config{}, err
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) (Config, error) {
	script, err := SplitScript(v.GetString(KeyHeadlessScript))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", KeyHeadlessScript, err)
	}
	locale := v.GetString(KeyDisplayLocale)
	tag, err := language.Parse(locale)
	if err != nil {
		return Config{}, fmt.Errorf("%s %q: %w", KeyDisplayLocale, locale, err)
	}
	return Config{
		Scale:               v.GetInt(KeyWindowScale),
		TPS:                 v.GetInt(KeyWindowTPS),
		Locale:              tag,
		NoticeDuration:      v.GetDuration(KeyNoticeDuration),
		CancelNoticeOnInput: v.GetBool(KeyNoticeCancel),
		PressDuration:       v.GetDuration(KeyPressDuration),
		Headless:            v.GetBool(KeyHeadless),
		Hz:                  v.GetInt(KeyHeadlessHz),
		Ticks:               v.GetUint64(KeyHeadlessTicks),
		Script:              script,
		ExitAfterScript:     v.GetBool(KeyExitAfterScript),
		Verbosity:           v.GetInt(KeyLogVerbosity),
	}, nil
}

// SplitScript splits a script into button names using shell word rules
// (quotes and # comments), then splits each word on commas.
func SplitScript(s string) ([]string, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, w := range words {
		for _, tok := range strings.Split(w, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				out = append(out, tok)
			}
		}
	}
	return out, nil
}

// Validate checks for invalid configuration values.
func (c *Config) Validate() error {
	var errs []error
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%s must be > 0, got %d", KeyWindowScale, c.Scale))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("%s must be > 0, got %d", KeyWindowTPS, c.TPS))
	}
	if c.NoticeDuration <= 0 {
		errs = append(errs, fmt.Errorf("%s must be > 0, got %s", KeyNoticeDuration, c.NoticeDuration))
	}
	if c.PressDuration <= 0 {
		errs = append(errs, fmt.Errorf("%s must be > 0, got %s", KeyPressDuration, c.PressDuration))
	}
	if c.Hz <= 0 {
		errs = append(errs, fmt.Errorf("%s must be > 0, got %d", KeyHeadlessHz, c.Hz))
	}
	if c.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("%s must be >= 0, got %d", KeyLogVerbosity, c.Verbosity))
	}
	if c.ExitAfterScript && !c.Headless {
		errs = append(errs, fmt.Errorf("%s requires %s", KeyExitAfterScript, KeyHeadless))
	}
	return errors.Join(errs...)
}
