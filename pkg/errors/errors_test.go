package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeGraphInconsistency, "no node for package %s", "foo 1.0.0")

	if err.Code != ErrCodeGraphInconsistency {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeGraphInconsistency)
	}
	if err.Message != "no node for package foo 1.0.0" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodePathResolution, "canonicalize /x"),
			want: "PATH_RESOLUTION: canonicalize /x",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeMetadataQuery, stderrors.New("exit status 101"), "cargo metadata"),
			want: "METADATA_QUERY: cargo metadata: exit status 101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("file does not exist")
	err := Wrap(ErrCodePathResolution, cause, "canonicalize root")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeGraphInconsistency, "dangling edge")

	if !Is(err, ErrCodeGraphInconsistency) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodePathResolution) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeGraphInconsistency) {
		t.Error("Is should not match a plain error")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeGraphInconsistency, "no node")
	outer := fmt.Errorf("resolving left-pad: %w", inner)

	if !Is(outer, ErrCodeGraphInconsistency) {
		t.Error("Is should unwrap fmt.Errorf chains")
	}
	if GetCode(outer) != ErrCodeGraphInconsistency {
		t.Errorf("GetCode = %q, want %q", GetCode(outer), ErrCodeGraphInconsistency)
	}
}

func TestGetCodePlainError(t *testing.T) {
	if code := GetCode(stderrors.New("plain")); code != "" {
		t.Errorf("GetCode = %q, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidLockfile, "missing checksum for serde 1.0.0")
	if got := UserMessage(err); got != "missing checksum for serde 1.0.0" {
		t.Errorf("UserMessage = %q", got)
	}
	if strings.Contains(UserMessage(err), string(ErrCodeInvalidLockfile)) {
		t.Error("UserMessage should not contain the code prefix")
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
