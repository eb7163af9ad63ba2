package deploy

import (
	"context"

	"github.com/cloudnest/nestctl/models"
)

// ProjectInfo is what the pipeline needs back from a project lookup: the
// numeric project number is used to derive the default runtime service account.
type ProjectInfo struct {
	ID          string
	Number      int64
	DisplayName string
}

// SecretInfo describes an existing secret. The pipeline only cares that the
// lookup succeeded; the name is echoed for logging.
type SecretInfo struct {
	Name string
}

// BuildRequest asks the platform to build a container image from a source
// directory and publish it under ImageTag.
type BuildRequest struct {
	ProjectID   string
	ServiceName string
	SourceDir   string
	ImageTag    string
}

// ServiceRequest asks the platform to create or update a publicly reachable
// managed service running Image. SecretName is injected as the GEMINI_API_KEY
// environment variable from the secret's latest version; Env holds the plain
// environment variables.
type ServiceRequest struct {
	ProjectID      string
	Region         string
	ServiceName    string
	Image          string
	ServiceAccount string
	SecretName     string
	Env            map[string]string
}

// Platform is the narrow seam between the orchestration logic and the cloud
// provider: one method per deployment step. The production implementation
// lives in the gcp package; tests substitute a fake.
type Platform interface {
	// ResolveProject validates the target project and returns its metadata.
	ResolveProject(ctx context.Context, projectID string) (ProjectInfo, error)
	// EnableServices turns on the named platform APIs. Idempotent.
	EnableServices(ctx context.Context, projectID string, services []string) error
	// LookupSecret checks that the named secret exists, returning
	// ErrSecretNotFound when it does not.
	LookupSecret(ctx context.Context, projectID, name string) (SecretInfo, error)
	// GrantSecretAccess binds the secret-accessor role for member on the
	// secret. Idempotent.
	GrantSecretAccess(ctx context.Context, projectID, secretName, member string) error
	// SubmitBuild builds and publishes the image, returning the pushed
	// image reference.
	SubmitBuild(ctx context.Context, req BuildRequest) (string, error)
	// DeployService creates or updates the managed service and returns its
	// descriptor once it is serving.
	DeployService(ctx context.Context, req ServiceRequest) (models.ServiceInfo, error)
	// DescribeService fetches the current descriptor of a deployed service.
	// Used by `status`, not by the deploy pipeline.
	DescribeService(ctx context.Context, projectID, region, name string) (models.ServiceInfo, error)
}
