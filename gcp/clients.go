package gcp

import (
	"context"

	cloudbuild "cloud.google.com/go/cloudbuild/apiv1/v2"
	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	run "cloud.google.com/go/run/apiv2"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	serviceusage "cloud.google.com/go/serviceusage/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Clients holds all GCP SDK clients one deployment run needs.
type Clients struct {
	Projects *resourcemanager.ProjectsClient
	Usage    *serviceusage.Client
	Secrets  *secretmanager.Client
	Builds   *cloudbuild.Client
	Storage  *storage.Client
	Services *run.ServicesClient
}

// NewClients initializes the GCP SDK clients. A non-empty endpointURL routes
// every client at an emulator without authentication.
func NewClients(ctx context.Context, endpointURL string) (*Clients, error) {
	if endpointURL != "" {
		return newClientsWithEndpoint(ctx, endpointURL)
	}
	return newClientsDefault(ctx)
}

func newClientsWithEndpoint(ctx context.Context, endpointURL string) (*Clients, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(endpointURL),
		option.WithoutAuthentication(),
	}

	projects, err := resourcemanager.NewProjectsRESTClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	usage, err := serviceusage.NewRESTClient(ctx, opts...)
	if err != nil {
		_ = projects.Close()
		return nil, err
	}

	secrets, err := secretmanager.NewRESTClient(ctx, opts...)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		return nil, err
	}

	builds, err := cloudbuild.NewRESTClient(ctx, opts...)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		_ = secrets.Close()
		return nil, err
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		_ = secrets.Close()
		_ = builds.Close()
		return nil, err
	}

	services, err := run.NewServicesRESTClient(ctx, opts...)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		_ = secrets.Close()
		_ = builds.Close()
		_ = storageClient.Close()
		return nil, err
	}

	return &Clients{
		Projects: projects,
		Usage:    usage,
		Secrets:  secrets,
		Builds:   builds,
		Storage:  storageClient,
		Services: services,
	}, nil
}

func newClientsDefault(ctx context.Context) (*Clients, error) {
	projects, err := resourcemanager.NewProjectsClient(ctx)
	if err != nil {
		return nil, err
	}

	usage, err := serviceusage.NewClient(ctx)
	if err != nil {
		_ = projects.Close()
		return nil, err
	}

	secrets, err := secretmanager.NewClient(ctx)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		return nil, err
	}

	builds, err := cloudbuild.NewClient(ctx)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		_ = secrets.Close()
		return nil, err
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		_ = secrets.Close()
		_ = builds.Close()
		return nil, err
	}

	services, err := run.NewServicesClient(ctx)
	if err != nil {
		_ = projects.Close()
		_ = usage.Close()
		_ = secrets.Close()
		_ = builds.Close()
		_ = storageClient.Close()
		return nil, err
	}

	return &Clients{
		Projects: projects,
		Usage:    usage,
		Secrets:  secrets,
		Builds:   builds,
		Storage:  storageClient,
		Services: services,
	}, nil
}

// Close closes all clients, returning the first error encountered.
func (c *Clients) Close() error {
	var firstErr error
	closers := []func() error{
		c.Projects.Close,
		c.Usage.Close,
		c.Secrets.Close,
		c.Builds.Close,
		c.Storage.Close,
		c.Services.Close,
	}
	for _, close := range closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
