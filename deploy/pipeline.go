package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cloudnest/nestctl/models"
)

// SecretEnvVar is the environment variable the secret is injected as.
const SecretEnvVar = "GEMINI_API_KEY"

// RequiredServices are the platform APIs every deployment needs enabled.
var RequiredServices = []string{
	"run.googleapis.com",
	"cloudbuild.googleapis.com",
	"secretmanager.googleapis.com",
	"artifactregistry.googleapis.com",
}

// BaseEnv holds the fixed environment the CloudNest service is deployed with.
// Values match the application's own config defaults.
var BaseEnv = map[string]string{
	"MODEL_NAME":         "gemini-2.5-flash",
	"RESTAURANT_NAME":    "CloudNest Restaurant",
	"RESTAURANT_ADDRESS": "India",
	"INVOICE_LOGO_PATH":  "data/invoice_logo.png",
}

// Result is what a successful run produces. Nothing is persisted here; the
// cloud provider owns all durable state.
type Result struct {
	Config  models.DeploymentConfig
	Project ProjectInfo
	Image   string
	Service models.ServiceInfo

	ServiceURL string
	HealthURL  string
}

// Pipeline runs the deployment steps in strict order against a Platform.
// Every step blocks and must succeed before the next begins; the first
// failure aborts the run and nothing is rolled back.
type Pipeline struct {
	Platform Platform
	Logger   zerolog.Logger
}

func NewPipeline(p Platform, logger zerolog.Logger) *Pipeline {
	return &Pipeline{Platform: p, Logger: logger}
}

// Run executes the six deployment steps:
//
//  1. resolve the target project
//  2. enable the required platform APIs
//  3. verify the Gemini API key secret exists
//  4. grant the runtime identity access to the secret
//  5. build and push the container image
//  6. deploy the image as a public Cloud Run service
func (p *Pipeline) Run(ctx context.Context, cfg models.DeploymentConfig) (*Result, error) {
	cfg, err := PrepareConfig(cfg)
	if err != nil {
		return nil, err
	}

	p.Logger.Info().Str("project", cfg.ProjectID).Str("service", cfg.ServiceName).
		Str("region", cfg.Region).Msg("resolving project")
	project, err := p.Platform.ResolveProject(ctx, cfg.ProjectID)
	if err != nil {
		return nil, &StepError{Step: "resolve-project", Err: err}
	}

	runtimeSA := cfg.RuntimeServiceAccount
	if runtimeSA == "" {
		runtimeSA = defaultRuntimeServiceAccount(project.Number)
		p.Logger.Info().Str("serviceAccount", runtimeSA).Msg("using default runtime service account")
	}

	p.Logger.Info().Strs("services", RequiredServices).Msg("enabling platform APIs")
	if err := p.Platform.EnableServices(ctx, cfg.ProjectID, RequiredServices); err != nil {
		return nil, &StepError{Step: "enable-services", Err: err}
	}

	p.Logger.Info().Str("secret", cfg.SecretName).Msg("checking secret")
	if _, err := p.Platform.LookupSecret(ctx, cfg.ProjectID, cfg.SecretName); err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, &PreconditionError{Msg: fmt.Sprintf(
				"secret %q does not exist in project %q; create it first:\n"+
					"  echo -n \"<your-api-key>\" | gcloud secrets create %s --data-file=-",
				cfg.SecretName, cfg.ProjectID, cfg.SecretName)}
		}
		return nil, &StepError{Step: "lookup-secret", Err: err}
	}

	member := "serviceAccount:" + runtimeSA
	p.Logger.Info().Str("member", member).Msg("granting secret access")
	if err := p.Platform.GrantSecretAccess(ctx, cfg.ProjectID, cfg.SecretName, member); err != nil {
		return nil, &StepError{Step: "grant-secret-access", Err: err}
	}

	imageTag := fmt.Sprintf("gcr.io/%s/%s", cfg.ProjectID, cfg.ServiceName)
	p.Logger.Info().Str("image", imageTag).Str("source", cfg.SourceDir).Msg("submitting build")
	image, err := p.Platform.SubmitBuild(ctx, BuildRequest{
		ProjectID:   cfg.ProjectID,
		ServiceName: cfg.ServiceName,
		SourceDir:   cfg.SourceDir,
		ImageTag:    imageTag,
	})
	if err != nil {
		return nil, &StepError{Step: "submit-build", Err: err}
	}

	p.Logger.Info().Str("image", image).Msg("deploying service")
	service, err := p.Platform.DeployService(ctx, ServiceRequest{
		ProjectID:      cfg.ProjectID,
		Region:         cfg.Region,
		ServiceName:    cfg.ServiceName,
		Image:          image,
		ServiceAccount: runtimeSA,
		SecretName:     cfg.SecretName,
		Env:            serviceEnv(cfg.ExtraEnv),
	})
	if err != nil {
		return nil, &StepError{Step: "deploy-service", Err: err}
	}

	result := &Result{
		Config:     cfg,
		Project:    project,
		Image:      image,
		Service:    service,
		ServiceURL: service.URL,
		HealthURL:  HealthURL(service.URL),
	}
	p.Logger.Info().Str("url", result.ServiceURL).Msg("deployment complete")
	return result, nil
}

// Check runs the non-mutating preflight: the project must resolve and the
// secret must exist. No APIs are enabled, nothing is built or deployed.
func (p *Pipeline) Check(ctx context.Context, cfg models.DeploymentConfig) (ProjectInfo, error) {
	cfg, err := PrepareConfig(cfg)
	if err != nil {
		return ProjectInfo{}, err
	}
	project, err := p.Platform.ResolveProject(ctx, cfg.ProjectID)
	if err != nil {
		return ProjectInfo{}, &StepError{Step: "resolve-project", Err: err}
	}
	if _, err := p.Platform.LookupSecret(ctx, cfg.ProjectID, cfg.SecretName); err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return project, &PreconditionError{Msg: fmt.Sprintf(
				"secret %q does not exist in project %q", cfg.SecretName, cfg.ProjectID)}
		}
		return project, &StepError{Step: "lookup-secret", Err: err}
	}
	return project, nil
}

// HealthURL derives the health-check endpoint from a service URL.
func HealthURL(serviceURL string) string {
	return strings.TrimRight(serviceURL, "/") + "/healthz"
}

// serviceEnv merges the fixed deployment environment with any per-run extras.
// Extras win on conflict; the secret variable can never be overridden.
func serviceEnv(extra map[string]string) map[string]string {
	env := make(map[string]string, len(BaseEnv)+len(extra))
	for k, v := range BaseEnv {
		env[k] = v
	}
	for k, v := range extra {
		if k == SecretEnvVar {
			continue
		}
		env[k] = v
	}
	return env
}
