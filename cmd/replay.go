package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/achilleasa/polaris-link/host/script"
	"github.com/achilleasa/polaris-link/renderer"
	"github.com/achilleasa/polaris-link/tracer/software"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Replay a scripted session through the scene sync controller and the
// software engine.
func Replay(ctx *cli.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
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

	builder := script.NewBuilder(h)
	r := renderer.New(h, software.NewEngine(cfg), builder)
	builder.Register(r.Controller())
	defer r.Clear()

	stats := make([]renderer.FrameStats, 0, len(reqs))
	for index, req := range reqs {
		st, err := r.Render(context.Background(), req)
		if err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}
		stats = append(stats, st)
	}

	displayFrameStats(stats)
	return nil
}

func displayFrameStats(stats []renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Session", "Decision", "Reason", "Updates", "Passes", "Warnings", "Interrupted", "Sync time", "Render time"})

	var updates int
	for _, st := range stats {
		session := st.SessionID
		if len(session) > 8 {
			session = session[:8]
		}
		table.Append([]string{
			fmt.Sprintf("%d", st.Frame),
			session,
			st.Decision.String(),
			st.Reason,
			fmt.Sprintf("%d", st.Updates),
			fmt.Sprintf("%d", st.Passes),
			fmt.Sprintf("%d", st.Warnings),
			fmt.Sprintf("%t", st.Interrupted),
			st.SyncTime.String(),
			st.RenderTime.String(),
		})
		updates += st.Updates
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", updates), "", "", "", "", ""})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
