package gcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	cloudbuildpb "cloud.google.com/go/cloudbuild/apiv1/v2/cloudbuildpb"
	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/cloudnest/nestctl/deploy"
)

const buildTimeout = 20 * time.Minute

// SubmitBuild stages the source in the project's Cloud Build bucket, runs a
// docker build and push, and returns the pushed image reference (pinned to
// the digest when the build reports one).
func (c *Client) SubmitBuild(ctx context.Context, req deploy.BuildRequest) (string, error) {
	bucket := req.ProjectID + "_cloudbuild"
	object := fmt.Sprintf("source/%s-%s.tgz", req.ServiceName, uuid.NewString()[:8])

	if err := c.stageSource(ctx, req.SourceDir, bucket, object, req.ProjectID); err != nil {
		return "", err
	}

	build := &cloudbuildpb.Build{
		Source: &cloudbuildpb.Source{
			Source: &cloudbuildpb.Source_StorageSource{
				StorageSource: &cloudbuildpb.StorageSource{
					Bucket: bucket,
					Object: object,
				},
			},
		},
		Steps: []*cloudbuildpb.BuildStep{{
			Name: "gcr.io/cloud-builders/docker",
			Args: []string{"build", "-t", req.ImageTag, "."},
		}},
		Images:  []string{req.ImageTag},
		Timeout: durationpb.New(buildTimeout),
	}

	op, err := c.clients.Builds.CreateBuild(ctx, &cloudbuildpb.CreateBuildRequest{
		ProjectId: req.ProjectID,
		Build:     build,
	})
	if err != nil {
		return "", fmt.Errorf("failed to submit build: %w", err)
	}

	c.logger.Info().Str("bucket", bucket).Str("object", object).Msg("build submitted, waiting")
	done, err := op.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("build did not complete: %w", err)
	}
	if done.Status != cloudbuildpb.Build_SUCCESS {
		return "", fmt.Errorf("build %s finished with status %s: %s",
			done.Id, done.Status, done.StatusDetail)
	}

	image := req.ImageTag
	if results := done.GetResults(); len(results.GetImages()) > 0 {
		if digest := results.GetImages()[0].GetDigest(); digest != "" {
			image = fmt.Sprintf("%s@%s", req.ImageTag, digest)
		}
	}
	c.logger.Debug().Str("image", image).Str("build", done.Id).Msg("build succeeded")
	return image, nil
}

// stageSource uploads the tar.gz'd source directory to the staging bucket,
// creating the bucket on first use.
func (c *Client) stageSource(ctx context.Context, dir, bucket, object, projectID string) error {
	bkt := c.clients.Storage.Bucket(bucket)
	if _, err := bkt.Attrs(ctx); err != nil {
		if !errors.Is(err, storage.ErrBucketNotExist) {
			return fmt.Errorf("failed to check staging bucket %q: %w", bucket, err)
		}
		if err := bkt.Create(ctx, projectID, nil); err != nil {
			return fmt.Errorf("failed to create staging bucket %q: %w", bucket, err)
		}
		c.logger.Debug().Str("bucket", bucket).Msg("created staging bucket")
	}

	w := bkt.Object(object).NewWriter(ctx)
	if err := writeSourceArchive(dir, w); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to upload source to gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}
