package errkind

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		kind    error
		err     error
		wantNil bool
	}{
		{
			name:    "nil error returns nil",
			kind:    ErrIO,
			err:     nil,
			wantNil: true,
		},
		{
			name: "io error",
			kind: ErrIO,
			err:  fs.ErrNotExist,
		},
		{
			name: "fingerprint error",
			kind: ErrFingerprint,
			err:  errors.New("exit status 3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.kind, "open", "/music/a.mp3", tt.err)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.kind) {
				t.Errorf("errors.Is(Wrap(), %v) = false, want true", tt.kind)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("errors.Is(Wrap(), cause) = false, want true")
			}
			var fe *FileError
			if !errors.As(got, &fe) {
				t.Fatal("errors.As(Wrap(), *FileError) = false")
			}
			if fe.Path != "/music/a.mp3" {
				t.Errorf("FileError.Path = %q, want /music/a.mp3", fe.Path)
			}
		})
	}
}

func TestFileError_Error(t *testing.T) {
	err := New(ErrFormat, "extract tags", "/music/a.ogg")
	msg := err.Error()
	if !strings.Contains(msg, "/music/a.ogg") || !strings.Contains(msg, "format error") {
		t.Errorf("Error() = %q, missing path or kind", msg)
	}
	if errors.Is(err, ErrIO) {
		t.Error("format error should not match ErrIO")
	}
}
