package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cloudnest/nestctl/deploy"
	"github.com/cloudnest/nestctl/models"
)

var blueprintOut string

var blueprintCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Write a render.yaml blueprint for deploying to Render instead of Cloud Run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg := models.DeploymentConfig{ServiceName: serviceName}
		if cfg.ServiceName == "" {
			cfg.ServiceName = models.DefaultServiceName
		}

		data, err := yaml.Marshal(deploy.Blueprint(cfg))
		if err != nil {
			return err
		}
		if err := os.WriteFile(blueprintOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write blueprint: %w", err)
		}

		fmt.Printf("✅ Blueprint written to %s\n", blueprintOut)
		fmt.Println("ℹ️ Set GEMINI_API_KEY in the Render dashboard; it is excluded from sync.")
		return nil
	},
}

func init() {
	blueprintCmd.Flags().StringVar(&serviceName, "service-name", models.DefaultServiceName, "Service name for the blueprint")
	blueprintCmd.Flags().StringVarP(&blueprintOut, "output", "o", "render.yaml", "Output file")
	rootCmd.AddCommand(blueprintCmd)
}
