package config

// Config represents the application configuration
type Config struct {
	RootDir   string        `mapstructure:"root_dir" yaml:"root_dir"`
	SourceDir string        `mapstructure:"source_dir" yaml:"source_dir"`
	CoreDir   string        `mapstructure:"core_dir" yaml:"core_dir"`
	Logging   LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output    OutputConfig  `mapstructure:"output" yaml:"output"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Format  string `mapstructure:"format" yaml:"format"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// OutputConfig controls user-facing output
type OutputConfig struct {
	Color string `mapstructure:"color" yaml:"color"` // auto, always or never
}
