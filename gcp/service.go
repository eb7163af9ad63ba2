package gcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	iampb "cloud.google.com/go/iam/apiv1/iampb"
	runpb "cloud.google.com/go/run/apiv2/runpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudnest/nestctl/deploy"
	"github.com/cloudnest/nestctl/models"
)

const (
	invokerRole   = "roles/run.invoker"
	containerPort = 8080
)

func serviceParent(projectID, region string) string {
	return fmt.Sprintf("projects/%s/locations/%s", projectID, region)
}

func serviceResource(projectID, region, name string) string {
	return fmt.Sprintf("%s/services/%s", serviceParent(projectID, region), name)
}

// DeployService creates or updates the Cloud Run service and opens it to
// unauthenticated traffic. It blocks until the revision is serving.
func (c *Client) DeployService(ctx context.Context, req deploy.ServiceRequest) (models.ServiceInfo, error) {
	name := serviceResource(req.ProjectID, req.Region, req.ServiceName)
	spec := c.buildServiceSpec(req)

	existing, err := c.clients.Services.GetService(ctx, &runpb.GetServiceRequest{Name: name})
	switch {
	case err == nil:
		spec.Name = existing.Name
		op, err := c.clients.Services.UpdateService(ctx, &runpb.UpdateServiceRequest{Service: spec})
		if err != nil {
			return models.ServiceInfo{}, fmt.Errorf("failed to update service %q: %w", req.ServiceName, err)
		}
		c.logger.Info().Str("service", name).Msg("updating existing service")
		return c.finishDeploy(ctx, op, name)

	case status.Code(err) == codes.NotFound:
		op, err := c.clients.Services.CreateService(ctx, &runpb.CreateServiceRequest{
			Parent:    serviceParent(req.ProjectID, req.Region),
			ServiceId: req.ServiceName,
			Service:   spec,
		})
		if err != nil {
			return models.ServiceInfo{}, fmt.Errorf("failed to create service %q: %w", req.ServiceName, err)
		}
		c.logger.Info().Str("service", name).Msg("creating new service")
		return c.finishDeploy(ctx, op, name)

	default:
		return models.ServiceInfo{}, fmt.Errorf("failed to get service %q: %w", req.ServiceName, err)
	}
}

// serviceOperation is satisfied by both the create and update LROs.
type serviceOperation interface {
	Wait(ctx context.Context, opts ...gax.CallOption) (*runpb.Service, error)
}

func (c *Client) finishDeploy(ctx context.Context, op serviceOperation, name string) (models.ServiceInfo, error) {
	svc, err := op.Wait(ctx)
	if err != nil {
		return models.ServiceInfo{}, fmt.Errorf("deployment of %q did not complete: %w", name, err)
	}
	if err := c.allowUnauthenticated(ctx, name); err != nil {
		return models.ServiceInfo{}, err
	}
	return serviceInfo(svc), nil
}

// buildServiceSpec maps a ServiceRequest to the Cloud Run revision template.
// Plain env vars are emitted in sorted order so repeat deploys stay diffable;
// the secret is mounted as an env var from its latest version.
func (c *Client) buildServiceSpec(req deploy.ServiceRequest) *runpb.Service {
	keys := make([]string, 0, len(req.Env))
	for k := range req.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	envVars := make([]*runpb.EnvVar, 0, len(keys)+1)
	for _, k := range keys {
		envVars = append(envVars, &runpb.EnvVar{
			Name:   k,
			Values: &runpb.EnvVar_Value{Value: req.Env[k]},
		})
	}
	envVars = append(envVars, &runpb.EnvVar{
		Name: deploy.SecretEnvVar,
		Values: &runpb.EnvVar_ValueSource{
			ValueSource: &runpb.EnvVarSource{
				SecretKeyRef: &runpb.SecretKeySelector{
					Secret:  req.SecretName,
					Version: "latest",
				},
			},
		},
	})

	return &runpb.Service{
		Labels:  map[string]string{"managed-by": "nestctl"},
		Ingress: runpb.IngressTraffic_INGRESS_TRAFFIC_ALL,
		Template: &runpb.RevisionTemplate{
			ServiceAccount: req.ServiceAccount,
			Containers: []*runpb.Container{{
				Image: req.Image,
				Env:   envVars,
				Ports: []*runpb.ContainerPort{{ContainerPort: containerPort}},
				Resources: &runpb.ResourceRequirements{
					Limits: map[string]string{
						"cpu":    "1",
						"memory": "512Mi",
					},
				},
			}},
		},
	}
}

// allowUnauthenticated grants run.invoker to allUsers on the service,
// skipping the write when the binding already exists.
func (c *Client) allowUnauthenticated(ctx context.Context, name string) error {
	policy, err := c.clients.Services.GetIamPolicy(ctx, &iampb.GetIamPolicyRequest{Resource: name})
	if err != nil {
		return fmt.Errorf("failed to read service IAM policy: %w", err)
	}

	for _, b := range policy.Bindings {
		if b.Role != invokerRole {
			continue
		}
		for _, m := range b.Members {
			if m == "allUsers" {
				return nil
			}
		}
		b.Members = append(b.Members, "allUsers")
		return c.setServicePolicy(ctx, name, policy)
	}

	policy.Bindings = append(policy.Bindings, &iampb.Binding{
		Role:    invokerRole,
		Members: []string{"allUsers"},
	})
	return c.setServicePolicy(ctx, name, policy)
}

func (c *Client) setServicePolicy(ctx context.Context, name string, policy *iampb.Policy) error {
	if _, err := c.clients.Services.SetIamPolicy(ctx, &iampb.SetIamPolicyRequest{
		Resource: name,
		Policy:   policy,
	}); err != nil {
		return fmt.Errorf("failed to allow unauthenticated access: %w", err)
	}
	c.logger.Debug().Str("service", name).Msg("public access granted")
	return nil
}

// DescribeService fetches the live descriptor of a deployed service.
func (c *Client) DescribeService(ctx context.Context, projectID, region, name string) (models.ServiceInfo, error) {
	svc, err := c.clients.Services.GetService(ctx, &runpb.GetServiceRequest{
		Name: serviceResource(projectID, region, name),
	})
	if err != nil {
		return models.ServiceInfo{}, fmt.Errorf("failed to describe service %q: %w", name, err)
	}
	return serviceInfo(svc), nil
}

func serviceInfo(svc *runpb.Service) models.ServiceInfo {
	info := models.ServiceInfo{
		Name:  svc.Name[strings.LastIndex(svc.Name, "/")+1:],
		URL:   svc.Uri,
		Ready: svc.GetTerminalCondition().GetState() == runpb.Condition_CONDITION_SUCCEEDED,
	}
	if rev := svc.LatestReadyRevision; rev != "" {
		info.LatestRevision = rev[strings.LastIndex(rev, "/")+1:]
	}
	if svc.UpdateTime != nil {
		info.LastDeployed = svc.UpdateTime.AsTime().Format(time.RFC3339)
	}
	return info
}
