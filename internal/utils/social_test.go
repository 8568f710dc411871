package utils_test

import (
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/utils"
)

func TestIsContactLink(t *testing.T) {
	for _, platform := range []string{"phone", "tel", "whatsapp", "WhatsApp", "Phone", "contactNumber"} {
		if !utils.IsContactLink(platform) {
			t.Errorf("IsContactLink(%q) = false, want true", platform)
		}
	}
	for _, platform := range []string{"instagram", "website", "youtube", ""} {
		if utils.IsContactLink(platform) {
			t.Errorf("IsContactLink(%q) = true, want false", platform)
		}
	}
}

func TestContactHref(t *testing.T) {
	tests := []struct {
		platform string
		value    string
		want     string
	}{
		{"whatsapp", "+1 (555) 010-2030", "https://wa.me/15550102030"},
		{"whatsapp", "555 010 2030", "https://wa.me/5550102030"},
		{"phone", "+15550102030", "tel:+15550102030"},
		{"tel", " 555-0102 ", "tel:555-0102"},
		{"contactNumber", "+1 555 010 2030", "tel:+1 555 010 2030"},
	}

	for _, tt := range tests {
		if got := utils.ContactHref(tt.platform, tt.value); got != tt.want {
			t.Errorf("ContactHref(%q, %q) = %q, want %q", tt.platform, tt.value, got, tt.want)
		}
	}
}

func TestPlatformLabel(t *testing.T) {
	tests := []struct {
		platform string
		want     string
	}{
		{"instagram", "Instagram"},
		{"youtube", "YouTube"},
		{"tiktok", "TikTok"},
		{"x", "X"},
		{"twitter", "X"},
		{"phone", "Call"},
		{"contactNumber", "Call"},
		{"whatsapp", "WhatsApp"},
		{"mycustomshop", "Mycustomshop"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := utils.PlatformLabel(tt.platform); got != tt.want {
			t.Errorf("PlatformLabel(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}
