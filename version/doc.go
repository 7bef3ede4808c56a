// Package version exposes build version information. Version, commit and
// build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/usermodel/version.Version=1.0.0"
package version
