package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"tcppub/internal/core/server"
	"tcppub/internal/shared/errors"
	"tcppub/internal/shared/types"
)

const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 5000
	DefaultInterval  = 1.0
	DefaultFilename  = "data.txt"
	DefaultDelimiter = `\n` // escaped form, decoded by UnescapeDelimiter
)

// Default returns the built-in option values.
func Default() *types.Config {
	return &types.Config{
		ServerConf: types.ServerConf{
			Host:      DefaultHost,
			Port:      DefaultPort,
			Interval:  DefaultInterval,
			Filename:  DefaultFilename,
			Delimiter: DefaultDelimiter,
			Loop:      true,
		},
		LogConf: types.LogConf{Level: "info"},
	}
}

// LoadIni maps the ini file onto cfg. Keys missing from the file keep
// whatever cfg already holds, so callers start from Default().
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return errors.NewError(errors.KindConfig, "failed to load", fileName).Base(err)
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return errors.NewError(errors.KindConfig, "failed to map", fileName).Base(err)
	}
	overrideFromEnvStr(&cfg.ServerConf.Host, "TCPPUB_HOST")
	overrideFromEnvInt(&cfg.ServerConf.Port, "TCPPUB_PORT")
	overrideFromEnvStr(&cfg.ServerConf.Filename, "TCPPUB_FILENAME")
	return nil
}

// Validate checks ranges and combinations that would otherwise surface as
// confusing runtime failures.
func Validate(cfg *types.Config) error {
	sc := cfg.ServerConf
	if sc.Port < 0 || sc.Port > 65535 {
		return errors.NewError(errors.KindConfig, "port out of range:", sc.Port)
	}
	if err := checkSeconds("interval", sc.Interval); err != nil {
		return err
	}
	if err := checkSeconds("write_timeout", sc.WriteTimeout); err != nil {
		return err
	}
	if strings.TrimSpace(sc.Filename) == "" {
		return errors.NewError(errors.KindConfig, "filename must be set")
	}
	delim, err := UnescapeDelimiter(sc.Delimiter)
	if err != nil {
		return err
	}
	if sc.MultiMessage && delim == "" {
		return errors.NewError(errors.KindConfig, "delimiter must not be empty in multi_message mode")
	}
	return nil
}

// UnescapeDelimiter decodes Go-style backslash escapes such as \n, \r\n, \t
// and \x00 so that control characters can be given on a command line or in
// an ini file.
func UnescapeDelimiter(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	out, err := strconv.Unquote(quoted)
	if err != nil {
		return "", errors.NewError(errors.KindConfig, "invalid delimiter escape", strconv.Quote(s)).Base(err)
	}
	return out, nil
}

// ServerConfig resolves cfg into the immutable runtime configuration.
func ServerConfig(cfg *types.Config) (server.Config, error) {
	if err := Validate(cfg); err != nil {
		return server.Config{}, err
	}
	sc := cfg.ServerConf
	delim, _ := UnescapeDelimiter(sc.Delimiter)
	return server.Config{
		Host:                sc.Host,
		Port:                sc.Port,
		Interval:            seconds(sc.Interval),
		Filename:            sc.Filename,
		MultiMessage:        sc.MultiMessage,
		Delimiter:           delim,
		Loop:                sc.Loop,
		WriteTimeout:        seconds(sc.WriteTimeout),
		IsolateSourceErrors: sc.IsolateSourceErrors,
	}, nil
}

// maxSeconds is the largest value that still fits a time.Duration.
var maxSeconds = float64(math.MaxInt64) / float64(time.Second)

func checkSeconds(name string, v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return errors.NewError(errors.KindConfig, name, "must be a finite number:", v)
	case v < 0:
		return errors.NewError(errors.KindConfig, name, "must not be negative:", v)
	case v >= maxSeconds:
		return errors.NewError(errors.KindConfig, name, "is too large:", v)
	}
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func overrideFromEnvStr(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
