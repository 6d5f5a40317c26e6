package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	reghttp "github.com/singularityhub/layerfetch/pkg/http"
)

// Get issues an authenticated GET and returns the buffered response.
func (c *Client) Get(ctx context.Context, url string, headers Headers) (*reghttp.Response, error) {
	c.logger.Debug().Str("url", url).Msg("GET")
	return c.call(ctx, http.MethodGet, url, headers, nil)
}

// GetJSON issues a GET and, on a 200, decodes the response body into
// out. Other statuses are returned undecoded.
func (c *Client) GetJSON(ctx context.Context, url string, headers Headers, out interface{}) (*reghttp.Response, error) {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if resp.Code == http.StatusOK {
		if err := decodeJSON(resp, out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Post issues an authenticated POST. Body typing is explicit: []byte
// and string values are sent verbatim, anything else is JSON-encoded
// with Content-Type set to application/json.
func (c *Client) Post(ctx context.Context, url string, headers Headers, body interface{}) (*reghttp.Response, error) {
	c.logger.Debug().Str("url", url).Msg("POST")
	return c.call(ctx, http.MethodPost, url, headers, body)
}

// PostJSON issues a POST and, on a 200, decodes the response body
// into out.
func (c *Client) PostJSON(ctx context.Context, url string, headers Headers, body, out interface{}) (*reghttp.Response, error) {
	resp, err := c.Post(ctx, url, headers, body)
	if err != nil {
		return nil, err
	}
	if resp.Code == http.StatusOK {
		if err := decodeJSON(resp, out); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Head issues an authenticated HEAD and returns the buffered response.
func (c *Client) Head(ctx context.Context, url string, headers Headers) (*reghttp.Response, error) {
	c.logger.Debug().Str("url", url).Msg("HEAD")
	return c.call(ctx, http.MethodHead, url, headers, nil)
}

// call issues the request, refreshing the bearer token at most once
// on a 401. The retry is an explicit second loop iteration so the
// at-most-one invariant is structural.
func (c *Client) call(ctx context.Context, method, url string, headers Headers, body interface{}) (*reghttp.Response, error) {
	if headers == nil {
		headers = Headers{}
	}

	raw, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		if _, ok := headers[headerContentType]; !ok {
			headers[headerContentType] = contentType
		}
	}

	retry := true
	for {
		resp, err := c.do(ctx, method, url, headers, raw)
		if err != nil {
			return nil, err
		}

		switch resp.Code {
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s: %v", ErrServer, resp.Reason, resp.Code)
		case http.StatusUnauthorized:
			if !retry {
				return nil, fmt.Errorf("%w: %s: %v", ErrCredentialsExpired, resp.Reason, resp.Code)
			}
			if err := c.refreshAuth(ctx, resp.Code, resp.Header(headerChallenge), headers); err != nil {
				return nil, err
			}
			retry = false
		default:
			// Statuses the caller chain does not specially handle are
			// passed through, 200 included.
			return resp, nil
		}
	}
}

// do makes one round trip with the given headers and raw body.
func (c *Client) do(ctx context.Context, method, url string, headers Headers, body []byte) (*reghttp.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	return reghttp.ReadResponse(resp)
}

// encodeBody makes request body typing explicit: raw bytes and
// strings are sent verbatim, anything else is JSON-encoded.
func encodeBody(body interface{}) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case string:
		return []byte(b), "", nil
	default:
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, "", err
		}
		return raw, "application/json", nil
	}
}

func decodeJSON(resp *reghttp.Response, out interface{}) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
