// Command usermodel serves the user resource behind the error envelope
// boundary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/usermodel/bootstrap"
	"github.com/kbukum/usermodel/config"
	"github.com/kbukum/usermodel/version"
)

const serviceName = "usermodel"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	configFile := flag.String("config", "", "path to config.yml")
	envFile := flag.String("env-file", "", "path to a .env file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Short())
		return nil
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg := &bootstrap.Config{}
	cfg.Name = serviceName
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	return app.Run(context.Background())
}
