package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type progressStep struct {
	out     io.Writer
	label   string
	started time.Time
	enabled bool
}

// startProgress prints label to the command's stderr. The returned step is
// nil when progress output is disabled; its methods accept nil.
func startProgress(cmd *cobra.Command, label string) *progressStep {
	if !progressEnabled() {
		return nil
	}
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "%s... ", label)
	return &progressStep{
		out:     out,
		label:   label,
		started: time.Now(),
		enabled: true,
	}
}

func (p *progressStep) Done() {
	if p == nil || !p.enabled {
		return
	}
	fmt.Fprintf(p.out, "done (%s)\n", formatDuration(time.Since(p.started)))
}

func (p *progressStep) Fail(err error) {
	if p == nil || !p.enabled {
		return
	}
	if err != nil {
		fmt.Fprintf(p.out, "failed: %v\n", err)
		return
	}
	fmt.Fprintln(p.out, "failed")
}

func progressEnabled() bool {
	if IsJSONOutput() || IsJSONLOutput() {
		return false
	}
	if noProgress {
		return false
	}
	if _, ok := os.LookupEnv("BRANDKIT_NO_PROGRESS"); ok {
		return false
	}
	if _, ok := os.LookupEnv("NO_PROGRESS"); ok {
		return false
	}
	return true
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	if d < time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
