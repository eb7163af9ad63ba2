package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cloudnest/nestctl/deploy"
	"github.com/cloudnest/nestctl/gcp"
	"github.com/cloudnest/nestctl/models"
	"github.com/cloudnest/nestctl/store"
)

var (
	file      string
	sourceDir string
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Build the container image and deploy it as a public Cloud Run service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildDeployConfig(cmd)
		if err != nil {
			return err
		}
		cfg, err = deploy.PrepareConfig(cfg)
		if err != nil {
			return err
		}

		// Configuration is valid; anything past this point is an external
		// failure, so stop echoing usage.
		cmd.SilenceUsage = true

		ctx := cmd.Context()
		logger := newLogger()
		clients, err := gcp.NewClients(ctx, os.Getenv("NESTCTL_ENDPOINT_URL"))
		if err != nil {
			return fmt.Errorf("failed to initialize Google Cloud clients: %w", err)
		}
		platform := gcp.New(clients, logger)
		defer platform.Close()

		result, err := deploy.NewPipeline(platform, logger).Run(ctx, cfg)
		if err != nil {
			return err
		}

		release := models.Release{
			ID:          uuid.New().String(),
			ProjectID:   result.Config.ProjectID,
			Region:      result.Config.Region,
			ServiceName: result.Config.ServiceName,
			Image:       result.Image,
			URL:         result.ServiceURL,
			DeployedAt:  time.Now().Format(time.RFC3339),
		}
		if err := store.SaveRelease(release); err != nil {
			fmt.Printf("⚠️ Could not record release history: %v\n", err)
		}

		fmt.Printf("✅ Service '%s' deployed successfully\n", result.Config.ServiceName)
		fmt.Printf("🌐 Service URL: %s\n", result.ServiceURL)
		fmt.Printf("🏥 Health check: %s\n", result.HealthURL)
		return nil
	},
}

// buildDeployConfig layers flag values over an optional manifest file.
func buildDeployConfig(cmd *cobra.Command) (models.DeploymentConfig, error) {
	var cfg models.DeploymentConfig
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return cfg, &deploy.ConfigurationError{Msg: fmt.Sprintf("cannot read manifest: %v", err)}
		}
		manifest, err := models.ParseManifest(data)
		if err != nil {
			return cfg, &deploy.ConfigurationError{Msg: err.Error()}
		}
		cfg = manifest.Config()
	}
	overlay := flagConfig(cmd)
	if cmd.Flags().Changed("source") {
		overlay.SourceDir = sourceDir
	}
	return deploy.MergeConfig(cfg, overlay), nil
}

func init() {
	addTargetFlags(deployCmd)
	deployCmd.Flags().StringVarP(&file, "filename", "f", "", "YAML deployment manifest (flags override manifest values)")
	deployCmd.Flags().StringVar(&sourceDir, "source", ".", "Application source directory to build")
	rootCmd.AddCommand(deployCmd)
}
