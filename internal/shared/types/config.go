package types

// ServerConf holds the replay server options. Durations are expressed in
// seconds so the same values work from the ini file and the command line.
type ServerConf struct {
	Host                string  `ini:"host"`
	Port                int     `ini:"port"`
	Interval            float64 `ini:"interval"`      // seconds between paced writes
	Filename            string  `ini:"filename"`      // read fresh for every connection
	MultiMessage        bool    `ini:"multi_message"` // split the file on Delimiter
	Delimiter           string  `ini:"delimiter"`     // backslash escapes are decoded
	Loop                bool    `ini:"loop"`
	WriteTimeout        float64 `ini:"write_timeout"`         // 0 disables the per-write deadline
	IsolateSourceErrors bool    `ini:"isolate_source_errors"` // keep serving when the file is unreadable
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config is the unified configuration of the publisher.
type Config struct {
	ServerConf `ini:"server"`
	LogConf    `ini:"log"`
}
