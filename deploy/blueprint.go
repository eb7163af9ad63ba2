package deploy

import (
	"sort"

	"github.com/cloudnest/nestctl/models"
)

// Blueprint builds the render.yaml equivalent of a Cloud Run deployment.
// GEMINI_API_KEY is emitted with sync disabled so the value is supplied from
// the Render dashboard instead of being committed.
func Blueprint(cfg models.DeploymentConfig) models.RenderBlueprint {
	noSync := false
	vars := []models.RenderEnvVar{
		{Key: SecretEnvVar, Sync: &noSync},
	}
	env := serviceEnv(cfg.ExtraEnv)
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vars = append(vars, models.RenderEnvVar{Key: k, Value: env[k]})
	}

	return models.RenderBlueprint{
		Services: []models.RenderService{{
			Type:            "web",
			Name:            cfg.ServiceName,
			Env:             "docker",
			Plan:            "free",
			DockerfilePath:  "./Dockerfile",
			HealthCheckPath: "/healthz",
			EnvVars:         vars,
		}},
	}
}
