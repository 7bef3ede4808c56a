// Package config loads service configuration with Viper.
//
// Configuration comes from a config.yml file (explicit or found in standard
// locations), an optional .env file loaded with godotenv, and environment
// variables. Environment variables carrying the service prefix override file
// values: USERMODEL_SERVER_PORT sets server.port and
// USERMODEL_ENVELOPE_MAX_CAUSE_DEPTH sets envelope.max_cause_depth.
//
// # Usage
//
//	var cfg bootstrap.Config
//	err := config.LoadConfig("usermodel", &cfg, config.WithConfigFile(path))
package config
