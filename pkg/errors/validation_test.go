package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateProjectID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "3f1c2b9e-4a8d-4a43-9f3a-0f3a2b1c9d8e", false},
		{"simple", "evening-streams", false},
		{"dotted", "team.main", false},

		{"empty", "", true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"null byte", "a\x00b", true},
		{"leading dash", "-flag", true},
		{"space", "my project", true},
		{"too long", strings.Repeat("a", 129), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidProject) {
				t.Errorf("ValidateProjectID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidProject)
			}
		})
	}
}

func TestValidateStreamID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"youtube:@lofigirl", false},
		{"twitch:shroud", false},
		{"kick:xqc", false},
		{"", true},
		{"twitch:/x", true},
	}

	for _, tt := range tests {
		err := ValidateStreamID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStreamID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://www.twitch.tv/shroud", false},
		{"http", "http://youtube.com/@lofigirl", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "kick.com/xqc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"desktop", 1920, 1080, false},
		{"collapsed", 0, 0, false},
		{"negative width", -1, 600, true},
		{"negative height", 800, -5, true},
		{"nan", math.NaN(), 600, true},
		{"inf", 800, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidLayout,
		ErrCodeInvalidProject,
		ErrCodeInvalidStream,
		ErrCodeInvalidURL,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeBusy,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
