package cmd

import (
	"errors"
	"fmt"

	"github.com/achilleasa/polaris-link/host/script"
	"github.com/achilleasa/polaris-link/pass"
	"github.com/urfave/cli"
)

// Resolve the outputs of a scripted frame and print the pass table.
func ResolvePasses(ctx *cli.Context) error {
	if _, err := setup(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing script file argument")
	}

	s, err := script.Load(ctx.Args().First())
	if err != nil {
		return err
	}
	h, err := script.NewHost(s.Entities)
	if err != nil {
		return err
	}
	reqs, err := s.Requests(h)
	if err != nil {
		return err
	}

	index := ctx.Int("frame")
	if index < 0 || index >= len(reqs) {
		return fmt.Errorf("frame index %d out of range [0, %d)", index, len(reqs))
	}
	req := reqs[index]

	table, warnings, err := pass.NewResolver().Resolve(req.Outputs, req.PassConfig())
	if err != nil {
		return err
	}
	defer table.Release()

	for _, w := range warnings {
		logger.Warning(w.Error())
	}
	logger.Noticef("frame %d: resolved %d pass(es), %d alias(es)\n%s", index, table.Len(), len(table.Aliases), table)

	for _, md := range table.Metadata {
		for key, value := range md.Attributes() {
			logger.Infof("%s = %s", key, value)
		}
	}
	return nil
}
