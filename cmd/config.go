package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName = "gofredholm"
	envPrefix      = "GOFREDHOLM"

	inputFlagName      = "inputConditionsFile"
	storeFlagName      = "store"
	samplesFlagName    = "samples"
	metricsFlagName    = "metrics-out"
	profileFlagName    = "profile"
	verboseFlagName    = "verbose"
	logFileFlagName    = "log-file"
	sweepFromFlagName  = "from"
	sweepToFlagName    = "to"
	sweepParallelFlag  = "parallel"
	storeConfigKey     = "store.path"
	sweepParallelKey   = "sweep.parallel"
	profileConfigKey   = "profile.mode"
	defaultSweepLimit  = 4
	defaultProfileMode = ""

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = "." + configBaseName + ".log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func init() {
	viper.SetDefault(storeConfigKey, "")
	viper.SetDefault(sweepParallelKey, defaultSweepLimit)
	viper.SetDefault(profileConfigKey, defaultProfileMode)
	viper.SetDefault(logFilenameKey, "")
	viper.SetDefault(logLevelKey, "info")
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// initConfig reads cfgFile, or gofredholm.yaml from the working and home directories
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.SetConfigName(configBaseName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || cfgFile == "" {
			return nil
		}
		return err
	}
	return nil
}

// parseSlogLevel accepts slog level names with offsets ("debug", "warn+2"), "warning",
// or a bare integer level
func parseSlogLevel(value string, defaultLevel slog.Level) (level slog.Level) {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "warning") {
		return slog.LevelWarn
	}
	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n)
	}
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return defaultLevel
	}
	return
}

// logFilename resolves the log path: the flag, then log.filename, then a file named after
// the problem title
func logFilename(flagPath, title string) string {
	for _, p := range []string{flagPath, viper.GetString(logFilenameKey)} {
		if p = strings.TrimSpace(p); p != "" {
			if expanded, err := homedir.Expand(p); err == nil {
				p = expanded
			}
			return filepath.Clean(p)
		}
	}
	if slug := titleSlug(title); slug != "" {
		return "." + configBaseName + "-" + slug + ".log"
	}
	return defaultLogFilename
}

// titleSlug lowercases title and collapses every run of other characters to one dash
func titleSlug(title string) string {
	var (
		sb   strings.Builder
		dash bool
	)
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}

// logCloser is the rotating file behind globalLogger, closed when the logger is replaced
var logCloser io.Closer

// configureLogger sends slog output for one problem through a rotating lumberjack file.
// Records carry the problem title when there is one.
func configureLogger(logPath, title string, verbose bool) {
	logLevel := parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		logLevel = slog.LevelDebug
	}
	logWriter := &lumberjack.Logger{
		Filename:   logFilename(logPath, title),
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}
	if logCloser != nil {
		_ = logCloser.Close()
	}
	logCloser = logWriter
	globalLogger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))
	if title != "" {
		globalLogger = globalLogger.With("problem", title)
	}
	slog.SetDefault(globalLogger)
}
