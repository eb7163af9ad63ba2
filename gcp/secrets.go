package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/iam"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudnest/nestctl/deploy"
)

const secretAccessorRole iam.RoleName = "roles/secretmanager.secretAccessor"

func secretResource(projectID, name string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", projectID, name)
}

// LookupSecret verifies that the secret exists. A gRPC NotFound maps to
// deploy.ErrSecretNotFound so the pipeline can distinguish the missing
// precondition from other provider failures.
func (c *Client) LookupSecret(ctx context.Context, projectID, name string) (deploy.SecretInfo, error) {
	resource := secretResource(projectID, name)
	secret, err := c.clients.Secrets.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: resource})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return deploy.SecretInfo{}, fmt.Errorf("%q: %w", resource, deploy.ErrSecretNotFound)
		}
		return deploy.SecretInfo{}, fmt.Errorf("failed to look up secret %q: %w", resource, err)
	}
	c.logger.Debug().Str("secret", secret.Name).Msg("secret found")
	return deploy.SecretInfo{Name: secret.Name}, nil
}

// GrantSecretAccess binds the secret-accessor role for member on the secret.
// The grant is skipped when the binding is already present.
func (c *Client) GrantSecretAccess(ctx context.Context, projectID, secretName, member string) error {
	handle := c.clients.Secrets.IAM(secretResource(projectID, secretName))

	policy, err := handle.Policy(ctx)
	if err != nil {
		return fmt.Errorf("failed to read secret IAM policy: %w", err)
	}
	if policy.HasRole(member, secretAccessorRole) {
		c.logger.Debug().Str("member", member).Msg("secret access already granted")
		return nil
	}

	policy.Add(member, secretAccessorRole)
	if err := handle.SetPolicy(ctx, policy); err != nil {
		return fmt.Errorf("failed to grant %s on secret %q to %s: %w",
			secretAccessorRole, secretName, member, err)
	}
	c.logger.Debug().Str("member", member).Str("secret", secretName).Msg("secret access granted")
	return nil
}
