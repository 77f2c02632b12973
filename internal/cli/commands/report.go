package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/staffeye/internal/api/client"
	"github.com/spf13/cobra"
)

func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Report history commands",
		Aliases: []string{"reports", "r"},
	}

	// Add subcommands
	cmd.AddCommand(newReportListCommand())
	cmd.AddCommand(newReportDownloadCommand())

	return cmd
}

func newReportListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List generated reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewClient()
			if err != nil {
				return err
			}

			reports, err := c.ListReports()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tRECORDS\tCREATED BY\tCREATED AT\t")
			for _, r := range reports {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t\n",
					r.ID, r.Name, r.Kind, r.RecordCount, r.CreatedBy,
					r.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func newReportDownloadCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download [id]",
		Short: "Download a report as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid report ID: %v", err)
			}

			c, err := client.NewClient()
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("report-%d.csv", id)
			}

			if err := c.DownloadReport(uint(id), output); err != nil {
				return err
			}

			fmt.Printf("Report saved to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path")
	return cmd
}
