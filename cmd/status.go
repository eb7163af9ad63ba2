package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudnest/nestctl/deploy"
	"github.com/cloudnest/nestctl/gcp"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the deployed service URL and health-check endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := deploy.PrepareConfig(flagConfig(cmd))
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		logger := newLogger()
		clients, err := gcp.NewClients(ctx, os.Getenv("NESTCTL_ENDPOINT_URL"))
		if err != nil {
			return fmt.Errorf("failed to initialize Google Cloud clients: %w", err)
		}
		platform := gcp.New(clients, logger)
		defer platform.Close()

		info, err := platform.DescribeService(ctx, cfg.ProjectID, cfg.Region, cfg.ServiceName)
		if err != nil {
			return err
		}

		ready := "False"
		if info.Ready {
			ready = "True"
		}
		age := "unknown"
		if info.LastDeployed != "" {
			if t, err := time.Parse(time.RFC3339, info.LastDeployed); err == nil {
				age = time.Since(t).Round(time.Second).String()
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tREADY\tREVISION\tAGE")
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, ready, info.LatestRevision, age)
		w.Flush()

		fmt.Printf("🌐 Service URL: %s\n", info.URL)
		fmt.Printf("🏥 Health check: %s\n", deploy.HealthURL(info.URL))
		return nil
	},
}

func init() {
	addTargetFlags(statusCmd)
	rootCmd.AddCommand(statusCmd)
}
