// Package gcp implements the deployment platform against the Google Cloud
// Go SDKs: Resource Manager, Service Usage, Secret Manager, Cloud Build,
// Cloud Storage and the Cloud Run Admin API.
package gcp

import (
	"github.com/rs/zerolog"

	"github.com/cloudnest/nestctl/deploy"
)

// Client implements deploy.Platform on top of the SDK client bundle.
type Client struct {
	clients *Clients
	logger  zerolog.Logger
}

var _ deploy.Platform = (*Client)(nil)

func New(clients *Clients, logger zerolog.Logger) *Client {
	return &Client{clients: clients, logger: logger}
}

func (c *Client) Close() error {
	return c.clients.Close()
}
