package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrInvalidFilename = errors.New("invalid filename")
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// ImageStorage 存圖片, 回傳給 product.Image 用的參考 (本地檔名或遠端 url)
// 副檔名不允許時回傳空字串, 不視為錯誤
type ImageStorage interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// AllowedFile 只看最後一個 '.' 之後的副檔名, 不分大小寫
func AllowedFile(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[idx+1:])]
	return ok
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename 只留 ASCII 英數與 _.-, 路徑分隔改成空白再以 _ 串接, 去掉開頭結尾的 . 與 _
// "../../etc/passwd" -> "etc_passwd"
func SecureFilename(filename string) string {
	filename = norm.NFKD.String(filename)
	var b strings.Builder
	for _, r := range filename {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	filename = b.String()

	filename = strings.NewReplacer("/", " ", "\\", " ").Replace(filename)
	filename = strings.Join(strings.Fields(filename), "_")
	filename = unsafeFilenameChars.ReplaceAllString(filename, "")
	return strings.Trim(filename, "._")
}

// splitExt "a.tar.gz" -> "a.tar", ".gz"
func splitExt(filename string) (string, string) {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext), ext
}
