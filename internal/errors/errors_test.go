package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := New(ErrAppExists, "app foo already exists")
	assert.Equal(t, "[APP_EXISTS] app foo already exists", err.Error())

	wrapped := Wrap(fmt.Errorf("disk full"), ErrArchiveWrite, "writing archive")
	assert.Equal(t, "[ARCHIVE_WRITE] writing archive: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "nothing"))
	assert.Nil(t, Wrapf(nil, ErrInternal, "nothing %d", 1))
}

func TestIsByCode(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("outer: %w", Wrap(base, ErrArchiveRead, "reading"))

	assert.True(t, errors.Is(err, New(ErrArchiveRead, "")))
	assert.False(t, errors.Is(err, New(ErrArchiveWrite, "")))
	assert.True(t, errors.Is(err, base))
	assert.True(t, IsErrorCode(err, ErrArchiveRead))
	assert.Equal(t, ErrArchiveRead, GetErrorCode(err))
	assert.Equal(t, ErrUnknown, GetErrorCode(base))
}

func TestDetails(t *testing.T) {
	err := New(ErrAppNotFound, "missing").WithDetail("app", "demo")
	assert.Equal(t, "demo", GetErrorDetails(err)["app"])
	assert.Nil(t, GetErrorDetails(errors.New("plain")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"app missing", New(ErrAppNotFound, "x"), 1},
		{"manifest missing", New(ErrManifestMissing, "x"), 2},
		{"wrapped manifest missing", fmt.Errorf("pack: %w", New(ErrManifestMissing, "x")), 2},
		{"stream failure", New(ErrArchiveRead, "x"), 1},
		{"plain error", errors.New("x"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
