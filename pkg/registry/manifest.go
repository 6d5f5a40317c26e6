package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	// Registered for digest verification.
	_ "crypto/sha256"
	_ "crypto/sha512"

	"github.com/opencontainers/go-digest"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

// Registry REST routes
const (
	routeManifest = "%s/v2/%s/manifests/%s" // add base, repo name and digest/tag
	routeBlobPull = "%s/v2/%s/blobs/%s"     // add base, repo name and digest
)

// PullManifest fetches the OCI manifest for repo at ref (tag or
// digest) from the registry at base, such as https://registry.example.com.
func (c *Client) PullManifest(ctx context.Context, base, repo, ref string) (*v1.Manifest, error) {
	headers := Headers{"Accept": v1.MediaTypeImageManifest}

	manifest := &v1.Manifest{}
	resp, err := c.GetJSON(ctx, fmt.Sprintf(routeManifest, base, repo, ref), headers, manifest)
	if err != nil {
		return nil, err
	}
	if resp.Code != http.StatusOK {
		return nil, fmt.Errorf("manifest pull expected 200, got %v", resp.Code)
	}
	return manifest, nil
}

// PullLayer downloads the blob described by desc to destination and
// verifies its digest. Returns destination on success.
func (c *Client) PullLayer(ctx context.Context, base, repo string, desc v1.Descriptor, destination string) (string, error) {
	url := fmt.Sprintf(routeBlobPull, base, repo, desc.Digest)

	if _, err := c.DownloadTask(ctx, url, Headers{}, destination, "layer"); err != nil {
		return "", err
	}

	if err := verifyDigest(destination, desc.Digest); err != nil {
		os.Remove(destination)
		return "", err
	}
	return destination, nil
}

// verifyDigest checks that the file at path matches want.
func verifyDigest(path string, want digest.Digest) error {
	if err := want.Validate(); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	verifier := want.Verifier()
	if _, err := io.Copy(verifier, f); err != nil {
		return err
	}
	if !verifier.Verified() {
		return fmt.Errorf("blob digest mismatch; expected: %v", want)
	}
	return nil
}
