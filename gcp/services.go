package gcp

import (
	"context"
	"fmt"

	serviceusagepb "cloud.google.com/go/serviceusage/apiv1/serviceusagepb"
)

// EnableServices batch-enables the named APIs on the project. Already-enabled
// services are a no-op on the provider side, so the call is idempotent.
func (c *Client) EnableServices(ctx context.Context, projectID string, services []string) error {
	op, err := c.clients.Usage.BatchEnableServices(ctx, &serviceusagepb.BatchEnableServicesRequest{
		Parent:     "projects/" + projectID,
		ServiceIds: services,
	})
	if err != nil {
		return fmt.Errorf("failed to enable services: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("enabling services did not complete: %w", err)
	}
	c.logger.Debug().Strs("services", services).Msg("platform APIs enabled")
	return nil
}
