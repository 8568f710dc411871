package utils

import (
	"strings"
	"unicode"
)

// Contact platforms hold a phone number instead of a URL. They render as
// dial or chat actions on the landing page rather than plain links.
var contactPlatforms = map[string]bool{
	"phone":         true,
	"tel":           true,
	"contactnumber": true,
	"whatsapp":      true,
}

// IsContactLink reports whether the platform's value is a phone number
func IsContactLink(platform string) bool {
	return contactPlatforms[strings.ToLower(platform)]
}

// ContactHref builds the action href for a contact platform. WhatsApp uses
// the wa.me chat link; everything else dials.
func ContactHref(platform, value string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, value)

	if strings.ToLower(platform) == "whatsapp" {
		return "https://wa.me/" + digits
	}
	return "tel:" + strings.TrimSpace(value)
}

// PlatformLabel returns the display label for a platform key
func PlatformLabel(platform string) string {
	switch strings.ToLower(platform) {
	case "instagram":
		return "Instagram"
	case "facebook":
		return "Facebook"
	case "youtube":
		return "YouTube"
	case "tiktok":
		return "TikTok"
	case "linkedin":
		return "LinkedIn"
	case "twitter", "x":
		return "X"
	case "whatsapp":
		return "WhatsApp"
	case "phone", "tel", "contactnumber":
		return "Call"
	case "website":
		return "Website"
	}
	if platform == "" {
		return platform
	}
	return strings.ToUpper(platform[:1]) + platform[1:]
}
