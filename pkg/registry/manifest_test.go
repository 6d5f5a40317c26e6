package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, repo string, manifest v1.Manifest, blobs map[digest.Digest][]byte) *httptest.Server {
	manifestBytes, err := json.Marshal(manifest)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/v2/%s/manifests/", repo), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", v1.MediaTypeImageManifest)
		w.Write(manifestBytes)
	})
	mux.HandleFunc(fmt.Sprintf("/v2/%s/blobs/", repo), func(w http.ResponseWriter, r *http.Request) {
		dgst := digest.Digest(filepath.Base(r.URL.Path))
		blob, ok := blobs[dgst]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(blob)
	})

	return httptest.NewServer(mux)
}

func TestPullManifest(t *testing.T) {
	layer := testBody(1024)
	layerDesc := v1.Descriptor{
		MediaType: v1.MediaTypeImageLayerGzip,
		Digest:    digest.FromBytes(layer),
		Size:      int64(len(layer)),
	}
	manifest := v1.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		Layers:    []v1.Descriptor{layerDesc},
	}

	server := testRegistry(t, "library/ubuntu", manifest, nil)
	defer server.Close()

	client := newTestClient(Options{})
	pulled, err := client.PullManifest(context.Background(), server.URL, "library/ubuntu", "latest")
	require.NoError(t, err)

	require.Len(t, pulled.Layers, 1)
	assert.Equal(t, layerDesc.Digest, pulled.Layers[0].Digest)
	assert.Equal(t, layerDesc.Size, pulled.Layers[0].Size)
}

func TestPullLayer(t *testing.T) {
	layer := testBody(2 * chunkSize)
	desc := v1.Descriptor{
		MediaType: v1.MediaTypeImageLayerGzip,
		Digest:    digest.FromBytes(layer),
		Size:      int64(len(layer)),
	}

	server := testRegistry(t, "library/ubuntu", v1.Manifest{}, map[digest.Digest][]byte{
		desc.Digest: layer,
	})
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "layer.tar.gz")
	client := newTestClient(Options{})

	got, err := client.PullLayer(context.Background(), server.URL, "library/ubuntu", desc, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, got)

	written, err := ioutil.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, layer, written)
}

func TestPullLayerDigestMismatch(t *testing.T) {
	layer := testBody(1024)
	desc := v1.Descriptor{
		MediaType: v1.MediaTypeImageLayerGzip,
		Digest:    digest.FromBytes(layer),
		Size:      int64(len(layer)),
	}

	// Serve corrupted content under the expected digest.
	server := testRegistry(t, "library/ubuntu", v1.Manifest{}, map[digest.Digest][]byte{
		desc.Digest: append([]byte("corrupted"), layer...),
	})
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "layer.tar.gz")
	client := newTestClient(Options{})

	_, err := client.PullLayer(context.Background(), server.URL, "library/ubuntu", desc, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "digest mismatch")

	// The corrupted file must not be left behind.
	_, err = ioutil.ReadFile(dest)
	assert.Error(t, err)
}
