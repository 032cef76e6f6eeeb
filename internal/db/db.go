package db

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotExist возвращается, когда документ ещё ни разу не сохранялся.
var ErrNotExist = errors.New("document does not exist")

// Backend хранит один документ целиком: читает и перезаписывает его полностью.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindS3     = "s3"
)

type Options struct {
	Kind string

	// file: путь к JSON-файлу, sqlite: путь к файлу базы
	Path string
	// имя строки в таблице documents
	Name string

	Bucket string
	Key    string
}

func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile, "":
		if opts.Path == "" {
			return nil, errors.New("file backend: empty path")
		}
		return NewFileBackend(opts.Path), nil
	case KindSQLite:
		b, err := OpenSQLite(ctx, opts.Path, opts.Name)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindS3:
		b, err := NewS3Backend(ctx, opts.Bucket, opts.Key)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Kind)
	}
}
