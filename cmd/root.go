package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudnest/nestctl/models"
)

var (
	projectID   string
	region      string
	serviceName string
	runtimeSA   string
	secretName  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "nestctl",
	Short:         "nestctl builds and deploys the CloudNest RAG service to Cloud Run",
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// addTargetFlags registers the flags that identify the deployment target.
// Real defaults are applied by deploy.PrepareConfig so manifest values are
// not clobbered by unset flags.
func addTargetFlags(c *cobra.Command) {
	c.Flags().StringVar(&projectID, "project-id", "", "Google Cloud project id (required)")
	c.Flags().StringVar(&region, "region", models.DefaultRegion, "Cloud Run region")
	c.Flags().StringVar(&serviceName, "service-name", models.DefaultServiceName, "Cloud Run service name")
	c.Flags().StringVar(&runtimeSA, "runtime-sa", "", "Runtime service account (default: <project-number>-compute@developer.gserviceaccount.com)")
	c.Flags().StringVar(&secretName, "gemini-secret-name", models.DefaultSecretName, "Secret Manager secret holding the Gemini API key")
}

// flagConfig turns only the flags the user actually set into a config overlay.
func flagConfig(c *cobra.Command) models.DeploymentConfig {
	var cfg models.DeploymentConfig
	set := func(name string, dst *string, value string) {
		if c.Flags().Changed(name) {
			*dst = value
		}
	}
	set("project-id", &cfg.ProjectID, projectID)
	set("region", &cfg.Region, region)
	set("service-name", &cfg.ServiceName, serviceName)
	set("runtime-sa", &cfg.RuntimeServiceAccount, runtimeSA)
	set("gemini-secret-name", &cfg.SecretName, secretName)
	return cfg
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
