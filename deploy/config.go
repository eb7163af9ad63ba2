package deploy

import (
	"fmt"
	"strings"

	"github.com/cloudnest/nestctl/models"
)

// PrepareConfig fills in defaults and validates a deployment configuration.
// It must be called before any cloud call; a missing project id is a
// ConfigurationError, never an external failure.
func PrepareConfig(cfg models.DeploymentConfig) (models.DeploymentConfig, error) {
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	if cfg.ProjectID == "" {
		return cfg, &ConfigurationError{Msg: "project id is required"}
	}
	if cfg.Region == "" {
		cfg.Region = models.DefaultRegion
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = models.DefaultServiceName
	}
	if cfg.SecretName == "" {
		cfg.SecretName = models.DefaultSecretName
	}
	if cfg.SourceDir == "" {
		cfg.SourceDir = "."
	}
	for key := range cfg.ExtraEnv {
		if strings.TrimSpace(key) == "" {
			return cfg, &ConfigurationError{Msg: "environment variable names must not be empty"}
		}
	}
	return cfg, nil
}

// MergeConfig overlays flag values on top of a manifest-derived configuration.
// Flags win whenever they were set.
func MergeConfig(base, flags models.DeploymentConfig) models.DeploymentConfig {
	out := base
	if flags.ProjectID != "" {
		out.ProjectID = flags.ProjectID
	}
	if flags.Region != "" {
		out.Region = flags.Region
	}
	if flags.ServiceName != "" {
		out.ServiceName = flags.ServiceName
	}
	if flags.RuntimeServiceAccount != "" {
		out.RuntimeServiceAccount = flags.RuntimeServiceAccount
	}
	if flags.SecretName != "" {
		out.SecretName = flags.SecretName
	}
	if flags.SourceDir != "" {
		out.SourceDir = flags.SourceDir
	}
	if len(flags.ExtraEnv) > 0 {
		merged := make(map[string]string, len(base.ExtraEnv)+len(flags.ExtraEnv))
		for k, v := range base.ExtraEnv {
			merged[k] = v
		}
		for k, v := range flags.ExtraEnv {
			merged[k] = v
		}
		out.ExtraEnv = merged
	}
	return out
}

// defaultRuntimeServiceAccount derives the Compute Engine default service
// account from the numeric project number.
func defaultRuntimeServiceAccount(projectNumber int64) string {
	return fmt.Sprintf("%d-compute@developer.gserviceaccount.com", projectNumber)
}
