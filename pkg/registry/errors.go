package registry

import "errors"

// Errors returned by the client. Callers match them with errors.Is;
// wrapped copies carry the failing URL or status code.
var (
	ErrChallengeMissing        = errors.New("registry: authentication challenge missing")
	ErrChallengeMalformed      = errors.New("registry: unrecognized authentication challenge")
	ErrTokenFetch              = errors.New("registry: token fetch failed")
	ErrCredentialsExpired      = errors.New("registry: credentials expired")
	ErrMalformedResponse       = errors.New("registry: malformed server response")
	ErrInvalidURLOrPermissions = errors.New("registry: invalid url or permissions")
	ErrStreamFailed            = errors.New("registry: stream failed")
	ErrDownloadIncomplete      = errors.New("registry: download incomplete")
	ErrServer                  = errors.New("registry: server error")
)
