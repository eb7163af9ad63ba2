package models

// Render blueprint types (render.yaml). Only the fields the CloudNest web
// service needs are modeled.

type RenderBlueprint struct {
	Services []RenderService `yaml:"services"`
}

type RenderService struct {
	Type            string         `yaml:"type"`
	Name            string         `yaml:"name"`
	Env             string         `yaml:"env"`
	Region          string         `yaml:"region,omitempty"`
	Plan            string         `yaml:"plan,omitempty"`
	DockerfilePath  string         `yaml:"dockerfilePath,omitempty"`
	HealthCheckPath string         `yaml:"healthCheckPath,omitempty"`
	EnvVars         []RenderEnvVar `yaml:"envVars,omitempty"`
}

// RenderEnvVar either carries a literal value or, with Sync=false, marks the
// variable as one the operator fills in from the Render dashboard.
type RenderEnvVar struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value,omitempty"`
	Sync  *bool  `yaml:"sync,omitempty"`
}
