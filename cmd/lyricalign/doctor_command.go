package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lyricalign/internal/deps"
	"lyricalign/internal/language"
	"lyricalign/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Config:   %s\n", ctx.configPath)
			fmt.Fprintf(out, "Backend:  %s (model %s)\n", cfg.Aligner.Backend, cfg.Aligner.Model)
			fmt.Fprintf(out, "Language: %s (%s)\n", language.DisplayName(cfg.Aligner.Language), cfg.Aligner.Language)
			fmt.Fprintln(out)

			statuses := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(statuses)+1)
			for _, status := range statuses {
				rows = append(rows, []string{
					status.Name,
					status.Command,
					dependencyState(status),
					dependencyDetail(status),
				})
			}

			var workResult preflight.Result
			if err := cfg.EnsureDirectories(); err != nil {
				workResult = preflight.Result{Name: "Work directory", Detail: err.Error()}
			} else {
				workResult = preflight.CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir)
			}
			rows = append(rows, []string{workResult.Name, "", passFail(workResult.Passed), workResult.Detail})

			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Command", "Status", "Detail"},
				rows,
			))

			missing := deps.MissingRequired(statuses)
			if len(missing) > 0 {
				return fmt.Errorf("missing required dependencies: %s", strings.Join(deps.Names(missing), ", "))
			}
			if !workResult.Passed {
				return fmt.Errorf("work directory not usable: %s", workResult.Detail)
			}
			return nil
		},
	}
}

func dependencyState(status deps.Status) string {
	switch {
	case status.Available:
		return "ok"
	case status.Optional:
		return "optional"
	default:
		return "missing"
	}
}

func dependencyDetail(status deps.Status) string {
	if status.Available {
		return status.Path
	}
	if status.Detail != "" {
		return status.Detail + "; " + status.Description
	}
	return status.Description
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
