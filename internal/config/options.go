package config

const (
	defaultLogFile           = "booksapp.log"
	defaultLogLevel          = "info"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultData              = "/var/opt/booksapp"
	defaultDatabaseName      = "books.db"
	defaultDSN               = defaultData + "/" + defaultDatabaseName
	defaultBusyTimeout       = 5000
	defaultPageSize          = 50
)

// Options uses mapstructure tags because viper decodes through mapstructure,
// json tags would be ignored.
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size in megabytes of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the rotated log files
	LogCompress bool `mapstructure:"log_compress"`
	// Data is the directory holding the database file and migration backups
	Data string `mapstructure:"data"`
	// DSN is the path of the sqlite database file
	DSN string `mapstructure:"dsn_uri"`
	// BusyTimeout is how long, in milliseconds, sqlite waits on a locked file
	BusyTimeout int `mapstructure:"busy_timeout"`
	// DefaultPageSize is the number of books the list command shows when no limit is given
	DefaultPageSize int `mapstructure:"default_page_size"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		Data:              defaultData,
		DSN:               defaultDSN,
		BusyTimeout:       defaultBusyTimeout,
		DefaultPageSize:   defaultPageSize,
	}
	return Opts
}
