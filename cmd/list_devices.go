package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the configured render devices.
func ListDevices(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Device", "Type", "Threads", "Default"})
	for _, dev := range cfg.Devices {
		table.Append([]string{
			dev.Name,
			string(dev.Type),
			fmt.Sprintf("%d", dev.Threads),
			fmt.Sprintf("%t", dev.Name == cfg.DefaultDevice),
		})
	}
	table.Render()

	logger.Noticef("configuration provides %d device(s)\n%s", len(cfg.Devices), buf.String())
	return nil
}
