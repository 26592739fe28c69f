package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/analysis"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/logging"
)

// Config is the top-level configuration structure. Analysis parameters are
// converted to an explicit analysis.Params value at call sites; nothing in
// the analysis chain reads configuration state.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Paths    PathsConfig    `mapstructure:"paths"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// ServerConfig holds review-server settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig locates the embedded result store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

// Options converts the section into logging.Options.
func (l LoggingConfig) Options() logging.Options {
	return logging.Options{
		Directory:  l.Directory,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
		Console:    l.Console,
	}
}

// BatchConfig controls the folder runner.
type BatchConfig struct {
	Workers       int  `mapstructure:"workers"`
	MoveProcessed bool `mapstructure:"move_processed"`
	WritePlots    bool `mapstructure:"write_plots"`
}

// PathsConfig names the project sub-folders. The conventional layout is
// 1_RawData, 2_Processed and 3_Results under a project directory.
type PathsConfig struct {
	RawData   string `mapstructure:"raw_data"`
	Processed string `mapstructure:"processed"`
	Results   string `mapstructure:"results"`
}

// AnalysisConfig mirrors the detection parameter set in configuration form.
type AnalysisConfig struct {
	MinHeight                 float64 `mapstructure:"min_height"`
	MinProminence             float64 `mapstructure:"min_prominence"`
	MinDistance               float64 `mapstructure:"min_distance"`
	MinWidth                  float64 `mapstructure:"min_width"`
	BoundaryFraction          float64 `mapstructure:"boundary_fraction"`
	AnalysisWindow            float64 `mapstructure:"analysis_window"`
	BinDuration               float64 `mapstructure:"bin_duration"`
	AmplitudeQualityThreshold float64 `mapstructure:"amplitude_quality_threshold"`
	MinReliableCount          int     `mapstructure:"min_reliable_count"`
	SamplingRate              float64 `mapstructure:"sampling_rate"`
	Preset                    string  `mapstructure:"preset"`
}

// Params converts the section into the explicit value the analysis chain
// takes. The conversion is one-way; later config reloads never reach an
// analysis already in flight.
func (a AnalysisConfig) Params() analysis.Params {
	return analysis.Params{
		MinHeight:                 a.MinHeight,
		MinProminence:             a.MinProminence,
		MinDistance:               a.MinDistance,
		MinWidth:                  a.MinWidth,
		BoundaryFraction:          a.BoundaryFraction,
		AnalysisWindow:            a.AnalysisWindow,
		BinDuration:               a.BinDuration,
		AmplitudeQualityThreshold: a.AmplitudeQualityThreshold,
		MinReliableCount:          a.MinReliableCount,
	}
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8417")

	v.SetDefault("database.path", "myograph.db")

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.console", true)

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.move_processed", true)
	v.SetDefault("batch.write_plots", true)

	v.SetDefault("paths.raw_data", "1_RawData")
	v.SetDefault("paths.processed", "2_Processed")
	v.SetDefault("paths.results", "3_Results")

	def := analysis.DefaultParams()
	v.SetDefault("analysis.min_height", def.MinHeight)
	v.SetDefault("analysis.min_prominence", def.MinProminence)
	v.SetDefault("analysis.min_distance", def.MinDistance)
	v.SetDefault("analysis.min_width", def.MinWidth)
	v.SetDefault("analysis.boundary_fraction", def.BoundaryFraction)
	v.SetDefault("analysis.analysis_window", def.AnalysisWindow)
	v.SetDefault("analysis.bin_duration", def.BinDuration)
	v.SetDefault("analysis.amplitude_quality_threshold", def.AmplitudeQualityThreshold)
	v.SetDefault("analysis.min_reliable_count", def.MinReliableCount)
	v.SetDefault("analysis.sampling_rate", 250.0)
	v.SetDefault("analysis.preset", "")
}

// Load reads configuration from config/config.yaml under projectRoot,
// MYO_* environment variables and defaults, in ascending precedence of
// defaults < file < environment. A missing file is fine.
func Load(projectRoot string, log *zap.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MYO") // e.g. MYO_ANALYSIS_MIN_HEIGHT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Hot reload keeps watch mode current; the updated snapshot only
	// affects recordings picked up after the change.
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		fresh := Config{}
		if err := v.Unmarshal(&fresh); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
			return
		}
		*cfg = fresh
	})

	log.Info("Configuration loaded successfully")
	return cfg, nil
}
