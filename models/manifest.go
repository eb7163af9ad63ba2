package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ManifestKind is the only resource kind the CLI understands.
const ManifestKind = "CloudRunDeployment"

type Metadata struct {
	Name   string            `json:"name" yaml:"name"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// DeploymentManifest is the YAML form of a deployment, applied with `deploy -f`.
type DeploymentManifest struct {
	Kind     string         `json:"kind" yaml:"kind"`
	Metadata Metadata       `json:"metadata" yaml:"metadata"`
	Spec     DeploymentSpec `json:"spec" yaml:"spec"`
}

type DeploymentSpec struct {
	ProjectID             string            `json:"projectId" yaml:"projectId"`
	Region                string            `json:"region" yaml:"region"`
	ServiceName           string            `json:"serviceName" yaml:"serviceName"`
	RuntimeServiceAccount string            `json:"runtimeServiceAccount" yaml:"runtimeServiceAccount"`
	GeminiSecretName      string            `json:"geminiSecretName" yaml:"geminiSecretName"`
	Source                string            `json:"source" yaml:"source"`
	Env                   map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
}

// ParseManifest decodes a manifest and rejects unknown kinds.
func ParseManifest(data []byte) (*DeploymentManifest, error) {
	var m DeploymentManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Kind != ManifestKind {
		return nil, fmt.Errorf("unsupported resource kind: %q (expected %q)", m.Kind, ManifestKind)
	}
	return &m, nil
}

// Config converts the manifest into a DeploymentConfig. The manifest's service
// name falls back to the metadata name.
func (m *DeploymentManifest) Config() DeploymentConfig {
	service := m.Spec.ServiceName
	if service == "" {
		service = m.Metadata.Name
	}
	return DeploymentConfig{
		ProjectID:             m.Spec.ProjectID,
		Region:                m.Spec.Region,
		ServiceName:           service,
		RuntimeServiceAccount: m.Spec.RuntimeServiceAccount,
		SecretName:            m.Spec.GeminiSecretName,
		SourceDir:             m.Spec.Source,
		ExtraEnv:              m.Spec.Env,
	}
}
