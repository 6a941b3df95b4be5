package utils

import "testing"

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"http://api.example.com:80/data/reviews.json?a=1", true},
		{"https://api.example.com", true},
		{"ftp://api.example.com", false},
		{"/data/reviews.json", false},
		{"http://", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		if got := IsValidURL(tt.raw); got != tt.want {
			t.Errorf("IsValidURL(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestBuildHeaders(t *testing.T) {
	h := BuildHeaders(map[string]string{"Content-Type": "application/x-www-form-urlencoded", "Accept": "text/plain"})

	if h.Get("User-Agent") != UserAgent {
		t.Errorf("User-Agent = %q", h.Get("User-Agent"))
	}

	if h.Get("Accept") != "text/plain" {
		t.Errorf("Custom header should override default, got %q", h.Get("Accept"))
	}

	if h.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", h.Get("Content-Type"))
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("short", 10); got != "short" {
		t.Errorf("TruncateString() = %q", got)
	}

	if got := TruncateString("abcdefghij", 4); got != "abcd..." {
		t.Errorf("TruncateString() = %q", got)
	}
}
