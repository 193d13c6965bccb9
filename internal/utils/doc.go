// Package utils exposes reusable helpers consumed by the CLI commands.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// environment variables through Viper. LoggerFactory builds the zap loggers,
// and FlushingWriter keeps streamed scan output visible line by line.
package utils
