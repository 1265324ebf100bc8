package pkg

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage 对象存储接口，头像上传用。生产可换对象存储实现，这里先落本地盘
type Storage interface {
	Save(file *multipart.FileHeader, key string) (string, error)
	PublicURL(key string) string
}

type DiskStorage struct {
	Dir     string // 本地目录
	BaseURL string // 对外可访问前缀
}

func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *DiskStorage) Save(file *multipart.FileHeader, key string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *DiskStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

// AvatarKey 按用户和时间生成存储键，避免浏览器缓存旧头像
func AvatarKey(userID uint64, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("avatar_%d_%d%s", userID, time.Now().Unix(), ext)
}
