package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/datareset/pkg/errors"
	"github.com/oneconcern/datareset/pkg/reset"
)

const maxDetailWidth = 80

type printer struct {
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func statusLabel(status reset.Status) string {
	switch status {
	case reset.Succeeded:
		return color.GreenString("[ok]")
	case reset.Skipped:
		return color.YellowString("[skipped]")
	default:
		return color.RedString("[FAILED]")
	}
}

// stage prints one status line as soon as a stage is over
func (p *printer) stage(res reset.StageResult) {
	line := fmt.Sprintf("%s %s", statusLabel(res.Status), res.Stage)
	if res.Detail != "" {
		line += ": " + res.Detail
	}
	fmt.Fprintln(p.out, line)
	if res.Err != nil {
		fmt.Fprintln(p.out, "    "+color.HiBlackString(res.Err.Error()))
	}
}

// summary prints the stage table, the tags that were not fully removed and the final status line
func (p *printer) summary(summary *reset.Summary, err error) {
	fmt.Fprintln(p.out)

	table := uitable.New()
	table.MaxColWidth = maxDetailWidth
	table.Wrap = true
	table.AddRow("STAGE", "STATUS", "DETAIL")
	for _, res := range summary.Stages {
		table.AddRow(string(res.Stage), string(res.Status), res.Detail)
	}
	fmt.Fprintln(p.out, table)

	var incomplete []reset.TagOutcome
	for _, outcome := range summary.Tags {
		if outcome.Err != nil {
			incomplete = append(incomplete, outcome)
		}
	}
	if len(incomplete) > 0 {
		tags := uitable.New()
		tags.MaxColWidth = maxDetailWidth
		tags.Wrap = true
		tags.AddRow("TAG", "LOCAL", "REMOTE", "ERROR")
		for _, outcome := range incomplete {
			tags.AddRow(outcome.Tag, string(outcome.Local), string(outcome.Remote), outcome.Err.Error())
		}
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, tags)
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, finalLine(summary, err))
}

func finalLine(summary *reset.Summary, err error) string {
	var stageErr *reset.StageError
	if errors.As(err, &stageErr) {
		return color.RedString("reset aborted at %s: %v", stageErr.Stage, stageErr.Err)
	}
	if err != nil {
		return color.RedString("reset aborted: %v", err)
	}

	baseline := strings.TrimSpace(summary.Baseline.Short() + " " + summary.Baseline.Subject)
	if summary.DryRun {
		return color.YellowString("dry run: nothing was changed, baseline is %s", baseline)
	}

	var b strings.Builder
	b.WriteString(color.GreenString("workspace reset to %s", baseline))
	if summary.Published {
		b.WriteString(", published")
	} else {
		b.WriteString(color.YellowString(", not published: %s", summary.PublishCommand))
	}
	if failed := summary.Failed(); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, res := range failed {
			names = append(names, string(res.Stage))
		}
		b.WriteString(color.YellowString(" (with failures in %s)", strings.Join(names, ", ")))
	}
	return b.String()
}
