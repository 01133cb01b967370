//go:build !mobile

package utils

import "os"

// IsMobile 是否按移动设备布局（更大的触控目标）
// 桌面端可设置 AFFIRM_MOBILE_EMULATE=1 模拟
func IsMobile() bool {
	return os.Getenv("AFFIRM_MOBILE_EMULATE") == "1"
}
