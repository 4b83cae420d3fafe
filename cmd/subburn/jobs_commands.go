package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"subburn/internal/daemon"
	"subburn/internal/jobs"
	"subburn/internal/services"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and clean burn-in jobs",
	}
	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsCleanCommand(ctx))
	return jobsCmd
}

func openConfiguredStore(ctx *commandContext) (jobs.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Jobs.Backend != "sqlite" {
		return nil, fmt.Errorf("job inspection requires the sqlite backend (configured backend is %q)", cfg.Jobs.Backend)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return daemon.OpenStore(cfg)
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List burn-in jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(all) == 0 {
				fmt.Fprintln(out, "no jobs")
				return nil
			}

			rows := make([][]string, 0, len(all))
			for _, job := range all {
				rows = append(rows, []string{
					job.ID,
					string(job.Status),
					strconv.Itoa(job.Progress) + "%",
					job.CreatedAt.Local().Format(time.RFC3339),
					job.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "STATUS", "PROGRESS", "CREATED", "OUTPUT"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openConfiguredStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			job, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if job == nil {
				return services.Wrap(services.ErrNotFound, "cli", "jobs show", fmt.Sprintf("job %s not found", args[0]), nil)
			}
			encoded, err := json.MarshalIndent(job, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		},
	}
}

func newJobsCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThanHours int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old job records and their output files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openConfiguredStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			retention := time.Duration(olderThanHours) * time.Hour
			if olderThanHours < 0 {
				retention = time.Duration(cfg.Jobs.RetentionHours) * time.Hour
			}

			reaper := jobs.NewReaper(store, retention, time.Minute, nil)
			reaper.Sweep(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "removed jobs older than %s\n", retention)
			return nil
		},
	}
	cmd.Flags().IntVar(&olderThanHours, "older-than", -1, "Age threshold in hours (default: configured retention)")
	return cmd
}
