package utils_test

import (
	"strings"
	"testing"

	"github.com/thankiuday/Phygital-sub005/internal/utils"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain https", input: "https://example.com/menu", want: "https://example.com/menu"},
		{name: "plain http", input: "http://example.com", want: "http://example.com"},
		{name: "scheme defaulted", input: "example.com/menu", want: "https://example.com/menu"},
		{name: "whitespace trimmed", input: "  example.com  ", want: "https://example.com"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "ftp rejected", input: "ftp://example.com/file", wantErr: true},
		{name: "javascript rejected", input: "javascript://alert(1)", wantErr: true},
		{name: "missing host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := utils.NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeURL(%q) = %q, expected error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLRejectsOverlong(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 5000)
	if _, err := utils.NormalizeURL(long); err == nil {
		t.Error("expected error for overlong url")
	}
}
