package models

// Release is one recorded deploy run, kept in the local history file so
// `nestctl releases` can show what was shipped and when.
type Release struct {
	ID          string `json:"id" yaml:"id"`
	ProjectID   string `json:"projectId" yaml:"projectId"`
	Region      string `json:"region" yaml:"region"`
	ServiceName string `json:"serviceName" yaml:"serviceName"`
	Image       string `json:"image" yaml:"image"`
	URL         string `json:"url" yaml:"url"`
	DeployedAt  string `json:"deployedAt" yaml:"deployedAt"` // RFC3339
}
