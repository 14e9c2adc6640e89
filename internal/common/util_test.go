package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	require.NoError(t, err)
	assert.Len(t, s, n*2)
	_, err = hex.DecodeString(s)
	assert.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "photo.png", "png"},
		{"double", "archive.tar.gz", "gz"},
		{"no dot", "README", "README"},
		{"trailing dot", "weird.", ""},
		{"with dir", "some/dir/a.txt", "txt"},
		{"windows dir", `C:\tmp\report.pdf`, "pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileExtension(tt.in))
		})
	}
}

func TestReason(t *testing.T) {
	err := fmt.Errorf("%w: no file provided", ErrValidation)
	assert.Equal(t, "no file provided", Reason(err, ErrValidation))

	other := errors.New("boom")
	assert.Equal(t, "boom", Reason(other, ErrValidation))
}
