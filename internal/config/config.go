package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cerfical/daylog/internal/daylog"
	"github.com/cerfical/daylog/internal/log"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DAYLOG"

var (
	defSeverity = daylog.SeverityInfo
	defLogLevel = log.LevelInfo
)

func Load(args []string) *Config {
	progName := getProgramName(args)

	flags := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Printf("Usage:\n")
		fmt.Printf("  %v [options] [message...]\n\n", progName)
		fmt.Printf("Appends the message to the log file of the current day.\n")
		fmt.Printf("If no message is given, every line of standard input is logged separately.\n\n")
		fmt.Printf("Options:\n")
		flags.PrintDefaults()
	}
	if err := parseFlags(flags, args); err != nil {
		printErrorAndExit(flags, err)
	}

	rawConfig, err := parseRawConfig(flags)
	if err != nil {
		printErrorAndExit(flags, err)
	}

	config := rawConfig.ToConfig()
	config.Args = flags.Args()
	return config
}

func printErrorAndExit(f *pflag.FlagSet, err error) {
	fmt.Printf("Error: %v\n\n", err)
	f.Usage()
	os.Exit(1)
}

func parseRawConfig(f *pflag.FlagSet) (*rawConfig, error) {
	// Variables from the .env file never override the ones already set
	envFile := f.Lookup("env-file").Value.String()
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load environment file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind command-line flags to their corresponding values from config file
	configNames := []string{"prefix", "dir", "severity", "log.level"}
	for _, name := range configNames {
		kebabCasedName := strings.ReplaceAll(name, ".", "-")
		if err := v.BindPFlag(name, f.Lookup(kebabCasedName)); err != nil {
			panic(fmt.Errorf("bind flag: %w", err))
		}
	}

	v.SetConfigFile(f.Lookup("config-file").Value.String())
	if err := v.ReadInConfig(); err != nil {
		// Make the configuration file optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
	}

	options := []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()),

		func(c *mapstructure.DecoderConfig) {
			c.IgnoreUntaggedFields = true
		},
	}

	var config rawConfig
	if err := v.UnmarshalExact(&config, options...); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	return &config, nil
}

func parseFlags(f *pflag.FlagSet, args []string) error {
	// Flags shared with options from a configuration file
	f.String("prefix", daylog.DefaultPrefix, "``name prefix of log files")
	f.String("dir", daylog.DefaultDir(), "``directory to store log files in")

	severity := severityValue(defSeverity)
	f.Var(&severity, "severity", "``severity of logged messages")

	logLevel := logLevelValue(defLogLevel)
	f.Var(&logLevel, "log-level", "``severity level of diagnostic messages")

	help := f.Bool("help", false, "``display help message")
	f.String("config-file", "", "``configuration file")
	f.String("env-file", ".env", "``file with environment variables")

	if err := f.Parse(args[1:]); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	if *help {
		f.Usage()
		os.Exit(2)
	}
	return nil
}

func getProgramName(args []string) string {
	progPath := args[0]
	return strings.TrimSuffix(
		filepath.Base(progPath),
		filepath.Ext(progPath),
	)
}

type Config struct {
	Prefix   string
	Dir      string
	Severity daylog.Severity

	Log struct {
		Level log.Level
	}

	// Args holds positional command-line arguments.
	Args []string
}

type rawConfig struct {
	Prefix   string        `mapstructure:"prefix"`
	Dir      string        `mapstructure:"dir"`
	Severity severityValue `mapstructure:"severity"`

	Log struct {
		Level logLevelValue `mapstructure:"level"`
	} `mapstructure:"log"`
}

func (c *rawConfig) ToConfig() *Config {
	var config Config

	config.Prefix = c.Prefix
	config.Dir = c.Dir
	config.Severity = daylog.Severity(c.Severity)
	config.Log.Level = log.Level(c.Log.Level)

	return &config
}

type severityValue daylog.Severity

func (v *severityValue) Set(s string) error {
	return (*daylog.Severity)(v).UnmarshalText([]byte(s))
}

func (v *severityValue) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

func (v *severityValue) String() string {
	return (*daylog.Severity)(v).String()
}

func (v *severityValue) Type() string {
	return ""
}

type logLevelValue log.Level

func (v *logLevelValue) Set(s string) error {
	return (*log.Level)(v).UnmarshalText([]byte(s))
}

func (v *logLevelValue) UnmarshalText(text []byte) error {
	return v.Set(string(text))
}

func (v *logLevelValue) String() string {
	return (*log.Level)(v).String()
}

func (v *logLevelValue) Type() string {
	return ""
}
