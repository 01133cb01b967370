//go:build !mobile

package utils

import "testing"

func TestIsMobile_Desktop(t *testing.T) {
	t.Setenv("AFFIRM_MOBILE_EMULATE", "")
	if IsMobile() {
		t.Error("IsMobile() should return false on desktop")
	}

	t.Setenv("AFFIRM_MOBILE_EMULATE", "1")
	if !IsMobile() {
		t.Error("IsMobile() should honor AFFIRM_MOBILE_EMULATE")
	}
}
