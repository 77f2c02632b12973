package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/staffeye/internal/api/client"
	"github.com/staffeye/internal/models"
	"github.com/spf13/cobra"
)

// outcomeLabel renders a task's last run outcome for table output; tasks
// that never ran show a dash.
func outcomeLabel(o models.RunOutcome) string {
	if o == models.RunUnset {
		return "-"
	}
	return string(o)
}

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule",
		Short:   "Scheduled report management commands",
		Aliases: []string{"schedules", "s"},
	}

	// Add subcommands
	cmd.AddCommand(newScheduleListCommand())
	cmd.AddCommand(newScheduleToggleCommand())
	cmd.AddCommand(newScheduleRunCommand())

	return cmd
}

func newScheduleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scheduled report tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return err
			}

			tasks, err := c.ListSchedules()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tCRON\tPERIOD\tACTIVE\tLAST RUN\tOUTCOME\t")
			for _, t := range tasks {
				lastRun := "-"
				if !t.LastRun.IsZero() {
					lastRun = t.LastRun.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%t\t%s\t%s\t\n",
					t.ID, t.Name, t.Kind, t.CronExpr, t.DataPeriod, t.Active, lastRun, outcomeLabel(t.LastOutcome))
			}
			return w.Flush()
		},
	}
}

func newScheduleToggleCommand() *cobra.Command {
	var active bool
	cmd := &cobra.Command{
		Use:   "toggle [id]",
		Short: "Activate or deactivate a scheduled task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid schedule ID: %v", err)
			}

			c, err := client.NewClient()
			if err != nil {
				return err
			}

			if err := c.ToggleSchedule(uint(id), active); err != nil {
				return err
			}

			fmt.Printf("Schedule %d active=%t\n", id, active)
			return nil
		},
	}
	cmd.Flags().BoolVar(&active, "active", true, "Desired active state")
	return cmd
}

func newScheduleRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [id]",
		Short: "Trigger a scheduled task immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid schedule ID: %v", err)
			}

			c, err := client.NewClient()
			if err != nil {
				return err
			}

			if err := c.RunScheduleNow(uint(id)); err != nil {
				return err
			}

			fmt.Printf("Run triggered for schedule %d\n", id)
			return nil
		},
	}
}
