package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudnest/nestctl/store"
)

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List deploy runs recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		releases, err := store.ListReleases()
		if err != nil {
			return err
		}
		if len(releases) == 0 {
			fmt.Println("No releases recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tPROJECT\tREGION\tIMAGE\tURL\tAGE")
		for _, r := range releases {
			age := "unknown"
			if t, err := time.Parse(time.RFC3339, r.DeployedAt); err == nil {
				age = time.Since(t).Round(time.Second).String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ServiceName, r.ProjectID, r.Region, r.Image, r.URL, age)
		}
		w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(releasesCmd)
}
