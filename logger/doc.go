// Package logger provides structured logging using zerolog.
//
// It supports JSON and console formats, stdout/stderr output and rotating
// file output through lumberjack. WithContext tags entries with the request
// id and the active trace.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "file"
//	  file_path: "/var/log/usermodel/app.log"
//
// # Usage
//
//	log := logger.New(&cfg.Logging, "usermodel").WithComponent("error-boundary")
//	log.WithContext(ctx).Warn("error envelope rendered", logger.Fields("status", 404))
package logger
