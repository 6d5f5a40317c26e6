package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
)

// chunkSize is the fixed read size for streaming downloads.
const chunkSize = 1 << 20 // 1 MiB

// Stream issues a streaming GET of url to dest, negotiating bearer
// authentication at most once. A retried stream restarts from byte
// zero, truncating dest. Returns dest on success.
func (c *Client) Stream(ctx context.Context, url string, headers Headers, dest string) (string, error) {
	if headers == nil {
		headers = Headers{}
	}
	c.logger.Debug().Str("url", url).Msg("GET")

	retry := true
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return "", err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return "", err
		}

		if resp.StatusCode == http.StatusUnauthorized && retry {
			challenge := resp.Header.Get(headerChallenge)
			resp.Body.Close()
			if err := c.refreshAuth(ctx, resp.StatusCode, challenge, headers); err != nil {
				return "", err
			}
			retry = false
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return "", fmt.Errorf("%w: response %v", ErrStreamFailed, resp.StatusCode)
		}

		err = c.writeChunks(resp, dest)
		resp.Body.Close()
		if err != nil {
			return "", err
		}
		return dest, nil
	}
}

// writeChunks copies the response body to dest in fixed-size chunks,
// reporting cumulative progress after each chunk when the content
// length is known.
func (c *Client) writeChunks(resp *http.Response, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	var total int64 = -1
	if cl := resp.Header.Get(headerContentLength); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			total = n
		}
	}

	var written int64
	buf := make([]byte, chunkSize)
	for {
		n, rerr := io.ReadFull(resp.Body, buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				out.Close()
				return werr
			}
			written += int64(n)
			if total >= 0 {
				// The line is terminated once the last chunk lands.
				c.opts.Progress.Show(written, total, c.opts.BarWidth, written >= total)
			}
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			out.Close()
			return rerr
		}
	}

	return out.Close()
}
