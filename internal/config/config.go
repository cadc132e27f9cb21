package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "BOOKSAPP"

var Opts *Options

// Read layers defaults, the optional config file and BOOKSAPP_* environment
// variables, later ones winning. The filesystem is not touched, call
// Resolve once flag overrides are applied.
func Read(file string) (*Options, error) {
	GetDefaultOptions()
	v := newViper()
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, errors.Wrapf(err, "unable to access config file %s", file)
		}
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", file)
		}
	}
	if err := v.Unmarshal(Opts); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	return Opts, nil
}

// Resolve makes the data directory absolute, creates it when missing and
// points the DSN into it unless a DSN was configured explicitly.
func Resolve() (*Options, error) {
	if Opts == nil {
		GetDefaultOptions()
	}

	derived := Opts.DSN == "" || Opts.DSN == defaultDSN
	dataDir, err := checkDataDir(Opts.Data)
	if err != nil {
		return nil, err
	}
	Opts.Data = dataDir
	if derived {
		Opts.DSN = filepath.Join(Opts.Data, defaultDatabaseName)
	}
	return Opts, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// AutomaticEnv only binds keys viper already knows about.
	v.SetDefault("log_file", Opts.LogFile)
	v.SetDefault("log_level", Opts.LogLevel)
	v.SetDefault("log_file_max_size", Opts.LogFileMaxSize)
	v.SetDefault("log_file_max_backups", Opts.LogFileMaxBackups)
	v.SetDefault("log_file_max_age", Opts.LogFileMaxAge)
	v.SetDefault("log_compress", Opts.LogCompress)
	v.SetDefault("data", Opts.Data)
	v.SetDefault("dsn_uri", Opts.DSN)
	v.SetDefault("busy_timeout", Opts.BusyTimeout)
	v.SetDefault("default_page_size", Opts.DefaultPageSize)
	return v
}

func checkDataDir(dataDir string) (string, error) {
	if dataDir == "" {
		return "", errors.New("data directory is empty")
	}
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err == nil {
		return dataDir, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	err := os.MkdirAll(dataDir, 0755)
	if err == nil {
		return dataDir, nil
	}
	if dataDir != defaultData || !errors.Is(err, os.ErrPermission) {
		return "", errors.Wrapf(err, "unable to create data folder %s", dataDir)
	}

	// Permission denied on the system-wide default, use the user's home directory.
	currentUser, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "unable to get current user")
	}
	if currentUser.HomeDir == "" {
		return "", errors.New("unable to get home directory")
	}
	homeData := filepath.Join(currentUser.HomeDir, ".booksapp")
	if err := os.MkdirAll(homeData, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create default data folder %s", homeData)
	}
	return homeData, nil
}
