package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

// getPathFromKey fans keys out over two directory levels.
func (ls *LocalStorage) getPathFromKey(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(ls.basePath, key[0:2], key[2:4], key), nil
}

func (ls *LocalStorage) Save(ctx context.Context, key string, data io.Reader) error {
	filePath, err := ls.getPathFromKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, data); err != nil {
		file.Close()
		os.Remove(filePath)
		return err
	}

	return file.Close()
}

func (ls *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	filePath, err := ls.getPathFromKey(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
		}
		return nil, err
	}

	return file, nil
}

// Delete is idempotent: removing a missing blob is not an error.
func (ls *LocalStorage) Delete(ctx context.Context, key string) error {
	filePath, err := ls.getPathFromKey(key)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if os.IsNotExist(err) {
		return nil
	}

	return err
}
