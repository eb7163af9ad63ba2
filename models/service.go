package models

// ServiceInfo describes a deployed Cloud Run service. It is produced as the
// output of a deploy or status call and never persisted by the provider layer.
type ServiceInfo struct {
	Name           string `json:"name" yaml:"name"`
	URL            string `json:"url" yaml:"url"`
	LatestRevision string `json:"latestRevision" yaml:"latestRevision"`
	Ready          bool   `json:"ready" yaml:"ready"`
	LastDeployed   string `json:"lastDeployed" yaml:"lastDeployed"` // RFC3339
}
