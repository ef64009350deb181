package gallery

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with operation",
			err: &Error{
				StatusCode: 400,
				Message:    "No files uploaded",
				Op:         "Upload",
			},
			want: "Upload: 400 No files uploaded",
		},
		{
			name: "without operation",
			err: &Error{
				StatusCode: 500,
				Message:    "index unavailable",
			},
			want: "500 index unavailable",
		},
		{
			name: "without message",
			err: &Error{
				StatusCode: 502,
				Op:         "Search",
			},
			want: "Search: 502 request failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		want bool
	}{
		{
			name: "matching status",
			err:  &Error{StatusCode: 400},
			code: 400,
			want: true,
		},
		{
			name: "other status",
			err:  &Error{StatusCode: 500},
			code: 400,
			want: false,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("upload: %w", &Error{StatusCode: 404}),
			code: 404,
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			code: 500,
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			code: 500,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStatus(tt.err, tt.code); got != tt.want {
				t.Errorf("IsStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServerMessage(t *testing.T) {
	msg, ok := ServerMessage(&Error{StatusCode: 500, Message: "Uploaded 2 files"})
	if !ok || msg != "Uploaded 2 files" {
		t.Errorf("ServerMessage() = %q, %v; want message", msg, ok)
	}

	if _, ok := ServerMessage(&Error{StatusCode: 500}); ok {
		t.Error("ServerMessage() reported a message for an empty API error")
	}

	if _, ok := ServerMessage(errors.New("network down")); ok {
		t.Error("ServerMessage() reported a message for a transport error")
	}
}
