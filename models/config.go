package models

// Default values substituted when the matching flag or manifest field is omitted.
const (
	DefaultRegion      = "asia-south1"
	DefaultServiceName = "cloudnest-rag"
	DefaultSecretName  = "gemini-api-key"
)

// DeploymentConfig carries everything one deployment run needs. It is built
// once from flags (and optionally a manifest file) and never mutated afterwards.
type DeploymentConfig struct {
	ProjectID             string            `json:"projectId" yaml:"projectId"`
	Region                string            `json:"region" yaml:"region"`
	ServiceName           string            `json:"serviceName" yaml:"serviceName"`
	RuntimeServiceAccount string            `json:"runtimeServiceAccount" yaml:"runtimeServiceAccount"` // derived from the project number when empty
	SecretName            string            `json:"secretName" yaml:"secretName"`
	SourceDir             string            `json:"sourceDir" yaml:"sourceDir"`
	ExtraEnv              map[string]string `json:"env" yaml:"env"`
}
