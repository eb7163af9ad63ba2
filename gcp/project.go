package gcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	resourcemanagerpb "cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"

	"github.com/cloudnest/nestctl/deploy"
)

// ResolveProject looks up the project and extracts its numeric project
// number from the resource name (`projects/<number>`).
func (c *Client) ResolveProject(ctx context.Context, projectID string) (deploy.ProjectInfo, error) {
	project, err := c.clients.Projects.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{
		Name: "projects/" + projectID,
	})
	if err != nil {
		return deploy.ProjectInfo{}, fmt.Errorf("failed to get project %q: %w", projectID, err)
	}
	if project.State != resourcemanagerpb.Project_ACTIVE {
		return deploy.ProjectInfo{}, fmt.Errorf("project %q is not active (state %s)", projectID, project.State)
	}

	number, err := strconv.ParseInt(strings.TrimPrefix(project.Name, "projects/"), 10, 64)
	if err != nil {
		return deploy.ProjectInfo{}, fmt.Errorf("unexpected project resource name %q: %w", project.Name, err)
	}

	c.logger.Debug().Str("project", projectID).Int64("number", number).Msg("project resolved")
	return deploy.ProjectInfo{
		ID:          project.ProjectId,
		Number:      number,
		DisplayName: project.DisplayName,
	}, nil
}
