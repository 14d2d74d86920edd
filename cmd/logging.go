package cmd

import (
	"github.com/achilleasa/polaris-link/config"
	"github.com/achilleasa/polaris-link/log"
	"github.com/urfave/cli"
)

var logger = log.New("polaris-link")

// Load the configuration and apply its log level. The verbosity flags
// override the configured level.
func setup(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := ctx.GlobalString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return cfg, nil
}
