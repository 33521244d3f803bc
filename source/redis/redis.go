// Package redis provides a redis:// source factory: the URL's "key" query
// parameter names a string value whose bytes become the input stream.
package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/recstream/source"
)

var ErrNilClient = errors.New("redis source: nil client")

// Config wires a client into the registry.
type Config struct {
	Client goredis.UniversalClient
}

// Register installs the redis scheme using cfg.Client. The client's
// lifetime is the caller's; sources returned from it do not close it.
func Register(cfg Config) error {
	if cfg.Client == nil {
		return ErrNilClient
	}
	source.Register("redis", func(ctx context.Context, u *url.URL) (io.ReadCloser, int64, error) {
		return open(ctx, cfg.Client, u)
	})
	return nil
}

func open(ctx context.Context, rdb goredis.UniversalClient, u *url.URL) (io.ReadCloser, int64, error) {
	key := u.Query().Get("key")
	if key == "" {
		return nil, 0, fmt.Errorf("redis source: %s: missing key parameter", u)
	}
	b, err := rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, 0, fmt.Errorf("redis source: %s: key %q not found", u.Host, key)
	}
	if err != nil {
		return nil, 0, err
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}
