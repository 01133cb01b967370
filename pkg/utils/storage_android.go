//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureStorageDir 确保 Android 上的设置目录存在并可写
// gdata 使用 /data/data/{package}/ 但不会预先创建子目录，需在打开存储前调用
func EnsureStorageDir() error {
	base := GetStoragePath()
	if base == "" {
		return fmt.Errorf("cannot detect Android package name")
	}

	dir := filepath.Join(base, "settings")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("settings dir %s is not writable: %w", dir, err)
	}
	return os.Remove(probe)
}

// GetStoragePath 应用私有目录；包名从 /proc/self/cmdline 读取
func GetStoragePath() string {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return ""
	}
	pkg := strings.TrimSpace(strings.ReplaceAll(string(data), "\x00", ""))
	if pkg == "" {
		return ""
	}
	return filepath.Join("/data/data", pkg)
}
