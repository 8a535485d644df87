package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/tick/internal/scheduler"
)

func newRollCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roll",
		Short: "Create the next occurrence of finished recurring tasks",
		Long: `Check recurring tasks and create the next occurrence of every series
whose latest task is done and whose period has passed.

With --watch, keep running and check on a cron schedule (six fields with
seconds, or a descriptor such as @hourly or "@every 30m").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := s.CheckAndRollRecurring()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %d recurring tasks\n", created)

			watch, _ := cmd.Flags().GetBool("watch")
			if !watch {
				return nil
			}

			spec := a.cfg.Recurrence.Schedule
			if cmd.Flags().Changed("schedule") {
				spec, _ = cmd.Flags().GetString("schedule")
			}

			sched := scheduler.New(time.Local, a.logger)
			if _, err := sched.ScheduleRollover(spec, s); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "Watching recurring tasks on schedule %q. Press Ctrl+C to stop.\n", spec)
			sched.Run(ctx)
			return nil
		},
	}

	cmd.Flags().BoolP("watch", "w", false, "Keep running and check on a schedule")
	cmd.Flags().String("schedule", "", "Cron schedule for --watch (default from config, @hourly)")
	return cmd
}
