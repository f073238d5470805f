package main

import (
	"tcppub/internal/shared/types"
)

// cliArgs are the command-line options. Pointer fields stay nil unless the
// flag is given, so ini values are only overridden explicitly.
type cliArgs struct {
	Config              string   `arg:"--config" help:"optional ini file with [server] and [log] sections"`
	Host                *string  `arg:"--host" help:"host interface to start server on [default: 127.0.0.1]"`
	Port                *int     `arg:"--port" help:"port number to start server on [default: 5000]"`
	Interval            *float64 `arg:"--interval" help:"time interval to send data in seconds [default: 1]"`
	Filename            *string  `arg:"--filename" help:"file containing data to be sent [default: data.txt]"`
	MultiMessage        *bool    `arg:"--multi_message" help:"file contains multiple messages [default: false]"`
	Delimiter           *string  `arg:"--delimiter" help:"end of message delimiter; Go string escapes (\n, \t, \x00) are decoded, so type a literal backslash as \\ [default: \n]"`
	Loop                *bool    `arg:"--loop" help:"loop data from file, use --loop=false to send once [default: true]"`
	WriteTimeout        *float64 `arg:"--write_timeout" help:"per-write deadline in seconds, 0 disables [default: 0]"`
	IsolateSourceErrors *bool    `arg:"--isolate_source_errors" help:"keep serving when the data file cannot be read [default: false]"`
	LogLevel            *string  `arg:"--log_level" help:"trace, debug, info, warn or error [default: info]"`
}

func (cliArgs) Description() string {
	return "tcppub replays a file to TCP clients, one client at a time, either as\n" +
		"a single blob or as delimiter-separated messages paced by an interval.\n"
}

// apply copies every flag that was given onto cfg.
func (a *cliArgs) apply(cfg *types.Config) {
	setIf(&cfg.Host, a.Host)
	setIf(&cfg.Port, a.Port)
	setIf(&cfg.Interval, a.Interval)
	setIf(&cfg.Filename, a.Filename)
	setIf(&cfg.MultiMessage, a.MultiMessage)
	setIf(&cfg.Delimiter, a.Delimiter)
	setIf(&cfg.Loop, a.Loop)
	setIf(&cfg.WriteTimeout, a.WriteTimeout)
	setIf(&cfg.IsolateSourceErrors, a.IsolateSourceErrors)
	setIf(&cfg.Level, a.LogLevel)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
