package source

import (
	"context"
	"io"
	"net/url"
	"os"
)

func init() {
	Register("file", openFile)
}

func openFile(_ context.Context, u *url.URL) (io.ReadCloser, int64, error) {
	path := u.Path
	if u.Opaque != "" {
		path = u.Opaque
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, st.Size(), nil
}
