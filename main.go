package main

import (
	"os"

	"github.com/achilleasa/polaris-link/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "polaris-link"
	app.Usage = "synchronize host scenes with a render engine and resolve output passes"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load preferences from a YAML file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "passes",
			Usage: "resolve the output passes of a scripted frame",
			Description: `
Load a replay script, convert the selected frame into a render request and
print the resolved pass table together with any resolution warnings.`,
			ArgsUsage: "script.yaml",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "frame, f",
					Value: 0,
					Usage: "index of the frame to resolve",
				},
			},
			Action: cmd.ResolvePasses,
		},
		{
			Name:  "replay",
			Usage: "replay a scripted render session",
			Description: `
Feed every frame of a replay script through the scene synchronization
controller and the software engine, then print per-frame statistics.`,
			ArgsUsage: "script.yaml",
			Action:    cmd.Replay,
		},
		{
			Name:   "list-devices",
			Usage:  "list configured render devices",
			Action: cmd.ListDevices,
		},
	}

	app.Run(os.Args)
}
