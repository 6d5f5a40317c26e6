package registry

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
)

// Download fetches url to fileName through a temporary sibling file,
// renaming into place so readers never observe a partial file. The
// rename is atomic only within a single filesystem. Returns fileName
// on success.
func (c *Client) Download(ctx context.Context, url string, headers Headers, fileName string) (string, error) {
	tmp, err := tempSibling(fileName)
	if err != nil {
		return "", err
	}

	// Preflight without credentials. A 401 here is acceptable: the
	// stream negotiates authentication itself.
	resp, err := c.do(ctx, http.MethodHead, url, nil, nil)
	if err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v", ErrInvalidURLOrPermissions, err)
	}
	if resp.Code != http.StatusOK && resp.Code != http.StatusUnauthorized {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: %v returned %v", ErrInvalidURLOrPermissions, url, resp.Code)
	}

	if _, err := c.Stream(ctx, url, headers, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, fileName); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return fileName, nil
}

// DownloadTask fetches url to destination, kind naming the artifact
// for logging (defaults to "layer"). This is the entry point meant to
// be scheduled by an external worker queue: it is safe to invoke
// concurrently on distinct destinations, and re-running overwrites
// destination.
func (c *Client) DownloadTask(ctx context.Context, url string, headers Headers, destination, kind string) (string, error) {
	if kind == "" {
		kind = "layer"
	}
	c.logger.Debug().Str("kind", kind).Str("url", url).Msg("downloading")

	tmp, err := tempSibling(destination)
	if err != nil {
		return "", err
	}

	if _, err := c.Download(ctx, url, headers, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, destination); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("%w: cannot move %v, was there a problem with download? %v", ErrDownloadIncomplete, tmp, err)
	}
	return destination, nil
}

// tempSibling creates a process-unique temporary file next to path
// and returns its name.
func tempSibling(path string) (string, error) {
	f, err := ioutil.TempFile(filepath.Dir(path), filepath.Base(path)+".tmp.")
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
