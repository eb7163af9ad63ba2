package deploy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudnest/nestctl/models"
)

// fakePlatform records every call in order and lets tests inject failures
// per step.
type fakePlatform struct {
	calls []string

	projectNumber int64
	secretErr     error
	buildErr      error
	deployErr     error

	enabledServices []string
	grantedMember   string
	grantedSecret   string
	buildReq        BuildRequest
	deployReq       ServiceRequest
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{projectNumber: 123456789}
}

func (f *fakePlatform) ResolveProject(_ context.Context, projectID string) (ProjectInfo, error) {
	f.calls = append(f.calls, "resolve-project")
	return ProjectInfo{ID: projectID, Number: f.projectNumber}, nil
}

func (f *fakePlatform) EnableServices(_ context.Context, _ string, services []string) error {
	f.calls = append(f.calls, "enable-services")
	f.enabledServices = services
	return nil
}

func (f *fakePlatform) LookupSecret(_ context.Context, _, name string) (SecretInfo, error) {
	f.calls = append(f.calls, "lookup-secret")
	if f.secretErr != nil {
		return SecretInfo{}, f.secretErr
	}
	return SecretInfo{Name: name}, nil
}

func (f *fakePlatform) GrantSecretAccess(_ context.Context, _, secretName, member string) error {
	f.calls = append(f.calls, "grant-secret-access")
	f.grantedSecret = secretName
	f.grantedMember = member
	return nil
}

func (f *fakePlatform) SubmitBuild(_ context.Context, req BuildRequest) (string, error) {
	f.calls = append(f.calls, "submit-build")
	f.buildReq = req
	if f.buildErr != nil {
		return "", f.buildErr
	}
	return req.ImageTag + "@sha256:abc123", nil
}

func (f *fakePlatform) DeployService(_ context.Context, req ServiceRequest) (models.ServiceInfo, error) {
	f.calls = append(f.calls, "deploy-service")
	f.deployReq = req
	if f.deployErr != nil {
		return models.ServiceInfo{}, f.deployErr
	}
	return models.ServiceInfo{
		Name:  req.ServiceName,
		URL:   fmt.Sprintf("https://%s-xyz.a.run.app", req.ServiceName),
		Ready: true,
	}, nil
}

func (f *fakePlatform) DescribeService(_ context.Context, _, _, name string) (models.ServiceInfo, error) {
	f.calls = append(f.calls, "describe-service")
	return models.ServiceInfo{Name: name}, nil
}

func newTestPipeline(f *fakePlatform) *Pipeline {
	return NewPipeline(f, zerolog.Nop())
}

func TestRun_MissingProjectID(t *testing.T) {
	fake := newFakePlatform()
	_, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, fake.calls, "no external calls may happen on bad configuration")
}

func TestRun_StepOrderAndDefaults(t *testing.T) {
	fake := newFakePlatform()
	result, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"resolve-project",
		"enable-services",
		"lookup-secret",
		"grant-secret-access",
		"submit-build",
		"deploy-service",
	}, fake.calls)

	// Default substitutions.
	assert.Equal(t, "asia-south1", result.Config.Region)
	assert.Equal(t, "cloudnest-rag", result.Config.ServiceName)
	assert.Equal(t, "gemini-api-key", result.Config.SecretName)
	assert.Equal(t, "gemini-api-key", fake.grantedSecret)

	// Runtime SA derived from the project number when the flag is omitted.
	assert.Equal(t, "serviceAccount:123456789-compute@developer.gserviceaccount.com", fake.grantedMember)
	assert.Equal(t, "123456789-compute@developer.gserviceaccount.com", fake.deployReq.ServiceAccount)

	assert.Equal(t, RequiredServices, fake.enabledServices)
	assert.Equal(t, "gcr.io/cloudnest-prod/cloudnest-rag", fake.buildReq.ImageTag)
	assert.Equal(t, "gcr.io/cloudnest-prod/cloudnest-rag@sha256:abc123", fake.deployReq.Image)
}

func TestRun_ExplicitRuntimeServiceAccount(t *testing.T) {
	fake := newFakePlatform()
	_, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{
		ProjectID:             "cloudnest-prod",
		RuntimeServiceAccount: "deployer@cloudnest-prod.iam.gserviceaccount.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "serviceAccount:deployer@cloudnest-prod.iam.gserviceaccount.com", fake.grantedMember)
}

func TestRun_MissingSecretHaltsBeforeBuild(t *testing.T) {
	fake := newFakePlatform()
	fake.secretErr = fmt.Errorf("projects/p/secrets/gemini-api-key: %w", ErrSecretNotFound)

	_, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
	})

	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Contains(t, pre.Error(), "gemini-api-key")
	assert.NotContains(t, fake.calls, "submit-build")
	assert.NotContains(t, fake.calls, "deploy-service")
	assert.Equal(t, "lookup-secret", fake.calls[len(fake.calls)-1])
}

func TestRun_SecretLookupFailureIsNotPrecondition(t *testing.T) {
	fake := newFakePlatform()
	fake.secretErr = errors.New("permission denied")

	_, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
	})

	var step *StepError
	require.ErrorAs(t, err, &step)
	assert.Equal(t, "lookup-secret", step.Step)
}

func TestRun_BuildFailureWrapsCause(t *testing.T) {
	fake := newFakePlatform()
	cause := errors.New("build timed out")
	fake.buildErr = cause

	_, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
	})

	var step *StepError
	require.ErrorAs(t, err, &step)
	assert.Equal(t, "submit-build", step.Step)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, fake.calls, "deploy-service")
}

func TestRun_ServiceEnvironment(t *testing.T) {
	fake := newFakePlatform()
	_, err := newTestPipeline(fake).Run(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
		ExtraEnv: map[string]string{
			"RESTAURANT_NAME": "Nest Diner",
			"GEMINI_API_KEY":  "must-not-leak", // secret var is never a plain env
		},
	})
	require.NoError(t, err)

	env := fake.deployReq.Env
	assert.Equal(t, "gemini-2.5-flash", env["MODEL_NAME"])
	assert.Equal(t, "Nest Diner", env["RESTAURANT_NAME"], "extras override the fixed defaults")
	assert.Equal(t, "India", env["RESTAURANT_ADDRESS"])
	assert.Equal(t, "data/invoice_logo.png", env["INVOICE_LOGO_PATH"])
	assert.NotContains(t, env, SecretEnvVar)
	assert.Equal(t, "gemini-api-key", fake.deployReq.SecretName)
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "https://svc.a.run.app/healthz", HealthURL("https://svc.a.run.app"))
	assert.Equal(t, "https://svc.a.run.app/healthz", HealthURL("https://svc.a.run.app/"))
}

func TestCheck_SecretMissing(t *testing.T) {
	fake := newFakePlatform()
	fake.secretErr = ErrSecretNotFound

	_, err := newTestPipeline(fake).Check(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
	})

	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, []string{"resolve-project", "lookup-secret"}, fake.calls)
}

func TestCheck_OK(t *testing.T) {
	fake := newFakePlatform()
	project, err := newTestPipeline(fake).Check(context.Background(), models.DeploymentConfig{
		ProjectID: "cloudnest-prod",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), project.Number)
	assert.Equal(t, []string{"resolve-project", "lookup-secret"}, fake.calls)
}
