package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
kind: CloudRunDeployment
metadata:
  name: cloudnest-rag
spec:
  projectId: cloudnest-prod
  region: asia-south1
  geminiSecretName: gemini-api-key
  source: ./app
  env:
    RESTAURANT_NAME: Nest Diner
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(sampleManifest))
	require.NoError(t, err)

	cfg := m.Config()
	assert.Equal(t, "cloudnest-prod", cfg.ProjectID)
	assert.Equal(t, "asia-south1", cfg.Region)
	assert.Equal(t, "cloudnest-rag", cfg.ServiceName, "service name falls back to metadata name")
	assert.Equal(t, "gemini-api-key", cfg.SecretName)
	assert.Equal(t, "./app", cfg.SourceDir)
	assert.Equal(t, "Nest Diner", cfg.ExtraEnv["RESTAURANT_NAME"])
}

func TestParseManifest_ServiceNameOverridesMetadata(t *testing.T) {
	m, err := ParseManifest([]byte(`
kind: CloudRunDeployment
metadata:
  name: meta-name
spec:
  projectId: p
  serviceName: spec-name
`))
	require.NoError(t, err)
	assert.Equal(t, "spec-name", m.Config().ServiceName)
}

func TestParseManifest_WrongKind(t *testing.T) {
	_, err := ParseManifest([]byte("kind: Pod\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported resource kind")
}

func TestParseManifest_BadYAML(t *testing.T) {
	_, err := ParseManifest([]byte("kind: [unclosed"))
	require.Error(t, err)
}
