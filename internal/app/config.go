package app

import "errors"

// Config holds the settings needed to load and evaluate one graph run.
type Config struct {
	GraphDefinitions []string // JSON declaration files or directories
	Templates        []string // JSON template-declaration files or directories
	InputsPath       string   // JSON file of named input values, "" for none

	EchoInputs        bool
	EchoTemplates     bool
	LogUndefinedPaths bool
	LogLiterals       bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns it as a *Config.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.GraphDefinitions) == 0 {
		return nil, errors.New("at least one --graph-definitions path is required")
	}
	return &cfg, nil
}
