package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage 存在 upload 目錄, 同名檔案以 base_1.ext, base_2.ext ... 避開
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload folder: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

func (s *LocalStorage) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !AllowedFile(filename) {
		return "", nil
	}
	filename = SecureFilename(filename)
	if filename == "" || !AllowedFile(filename) {
		return "", nil
	}

	f, name, err := s.createUnique(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return name, nil
}

// createUnique O_EXCL 建檔, 已存在就換下一個序號
func (s *LocalStorage) createUnique(filename string) (*os.File, string, error) {
	base, ext := splitExt(filename)
	name := filename
	for i := 1; ; i++ {
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create image file: %w", err)
		}
		name = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

// Path 取得已存檔案的完整路徑, 檔名必須是 Save 產生的形式
func (s *LocalStorage) Path(name string) (string, error) {
	if name == "" || name != SecureFilename(name) {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, name), nil
}

var _ ImageStorage = (*LocalStorage)(nil)
