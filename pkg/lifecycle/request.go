package lifecycle

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/arthur-debert/stagehand/pkg/errors"
)

// RequestOptions shapes a request issued against the running app.
// Zero value means GET with no body.
type RequestOptions struct {
	Method string
	Body   io.Reader
	Header http.Header
}

// Request issues an HTTP request against the running application's base
// URL. A missing leading slash on path is inserted. Issuing requests
// before StartApp is a caller error and fails here.
func (c *Controller) Request(ctx context.Context, path string, opts RequestOptions) (*http.Response, error) {
	base := c.BaseURL()
	if base == "" {
		return nil, errors.New(errors.ErrAppStart, "no running application; call StartApp first")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, base+path, opts.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "building request for %s", path)
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return http.DefaultClient.Do(req)
}
