package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

func init() {
	Register("http", openHTTP)
	Register("https", openHTTP)
}

func openHTTP(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("source: GET %s: %s", u, resp.Status)
	}
	size := resp.ContentLength // -1 when the server does not declare one
	if size < 0 {
		size = SizeUnknown
	}
	return resp.Body, size, nil
}
