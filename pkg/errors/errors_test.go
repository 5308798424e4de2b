package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", New(ErrCodeInvalidLayout, "tile %q overlaps %q", "a", "b"), `INVALID_LAYOUT: tile "a" overlaps "b"`},
		{"wrapped", Wrap(ErrCodeNetwork, errors.New("connection refused"), "resolve %d sources", 3), "NETWORK_ERROR: resolve 3 sources: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "resolve")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(fmt.Errorf("poll: %w", err), cause) {
		t.Error("errors.Is() through fmt wrapping = false, want true")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeInvalidStream, "stream listed twice")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeBusy, "dragging"), ErrCodeBusy, true},
		{"other code", New(ErrCodeBusy, "dragging"), ErrCodeNotFound, false},
		{"outer of chain", Wrap(ErrCodeInvalidProject, inner, "load"), ErrCodeInvalidProject, true},
		{"inner of chain", Wrap(ErrCodeInvalidProject, inner, "load"), ErrCodeInvalidStream, true},
		{"behind fmt wrapping", fmt.Errorf("open: %w", inner), ErrCodeInvalidStream, true},
		{"plain error", errors.New("boom"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodeAndUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode Code
		wantMsg  string
	}{
		{"coded", New(ErrCodeNotFound, "no project file at wall.toml"), ErrCodeNotFound, "no project file at wall.toml"},
		{"outermost wins", Wrap(ErrCodeInvalidProject, New(ErrCodeInvalidStream, "dup"), "decode project"), ErrCodeInvalidProject, "decode project"},
		{"plain", errors.New("disk full"), "", "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %q, want empty", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid layout", New(ErrCodeInvalidLayout, "overlap"), 400},
		{"invalid project", New(ErrCodeInvalidProject, "bad"), 400},
		{"not found", New(ErrCodeNotFound, "missing"), 404},
		{"busy", New(ErrCodeBusy, "dragging"), 409},
		{"network", Wrap(ErrCodeNetwork, errors.New("dial"), "resolve"), 502},
		{"unsupported", New(ErrCodeUnsupported, "vimeo"), 501},
		{"plain", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
