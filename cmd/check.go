package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudnest/nestctl/deploy"
	"github.com/cloudnest/nestctl/gcp"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the project and the Gemini API key secret without deploying",
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

		project, err := deploy.NewPipeline(platform, logger).Check(ctx, cfg)
		if err != nil {
			return err
		}

		fmt.Printf("✅ Project '%s' (number %d) is reachable\n", project.ID, project.Number)
		fmt.Printf("✅ Secret '%s' exists — ready to deploy\n", cfg.SecretName)
		return nil
	},
}

func init() {
	addTargetFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}
