package storage

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMinio  = "minio"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// file
	Dir string

	// sqlite
	DBPath string

	// redis
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisNamespace string

	// minio
	Minio MinioOptions
}

// Open returns the Store for opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		return OpenSQLite(opts.DBPath)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisNamespace)
	case BackendMinio:
		return NewMinioStore(ctx, opts.Minio)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
