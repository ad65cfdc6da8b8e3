package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputSize(t *testing.T) {
	under := []File{{Name: "a.pdf", Data: make([]byte, 1<<20)}}
	assert.NoError(t, ValidateInputSize(under))

	over := []File{
		{Name: "a.pdf", Data: make([]byte, HardInputLimit/2+1)},
		{Name: "b.pdf", Data: make([]byte, HardInputLimit/2+1)},
	}
	assert.ErrorIs(t, ValidateInputSize(over), ErrSizeLimitExceeded)
}

func TestOverSoftLimit(t *testing.T) {
	assert.False(t, OverSoftLimit([]File{{Data: make([]byte, 1024)}}))
	assert.True(t, OverSoftLimit([]File{{Data: make([]byte, SoftInputLimit+1)}}))
	// Beyond the hard cap is a rejection, not a warning.
	assert.False(t, OverSoftLimit([]File{{Data: make([]byte, HardInputLimit+1)}}))
}

func TestClampPoolSize(t *testing.T) {
	assert.Equal(t, 1, ClampPoolSize(0))
	assert.Equal(t, 1, ClampPoolSize(-5))
	assert.Equal(t, 4, ClampPoolSize(4))
	assert.Equal(t, MaxPoolSize, ClampPoolSize(9999))
}

func TestValidateReorder(t *testing.T) {
	require.NoError(t, ValidateReorder(nil, 3))
	require.NoError(t, ValidateReorder([]int{2, 1, 0}, 3))

	assert.ErrorIs(t, ValidateReorder([]int{0, 1}, 3), ErrInvalidReorder)
	assert.ErrorIs(t, ValidateReorder([]int{0, 0, 1}, 3), ErrInvalidReorder)
	assert.ErrorIs(t, ValidateReorder([]int{0, 1, 3}, 3), ErrInvalidReorder)
	assert.ErrorIs(t, ValidateReorder([]int{-1, 1, 2}, 3), ErrInvalidReorder)
}

func TestSanitizeErrorMessage(t *testing.T) {
	assert.Equal(t, "", SanitizeErrorMessage(""))
	assert.Equal(t, "plain message", SanitizeErrorMessage("plain message"))
	assert.Equal(t, "ab", SanitizeErrorMessage("a\x00b"))

	long := strings.Repeat("x", MaxErrorMessageLength+100)
	got := SanitizeErrorMessage(long)
	assert.LessOrEqual(t, len(got), MaxErrorMessageLength)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestValidateFilesFor(t *testing.T) {
	pdf := File{Name: "a.pdf", Data: []byte("%PDF-1.7 fake")}
	png := File{Name: "a.png", Data: []byte("\x89PNG\r\n\x1a\nfake")}
	jpg := File{Name: "a.jpg", Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}}

	assert.NoError(t, ValidateFilesFor(OpMerge, []File{pdf, pdf}))
	assert.NoError(t, ValidateFilesFor(OpCompress, []File{pdf}))
	assert.NoError(t, ValidateFilesFor(OpRasterize, []File{pdf}))
	assert.NoError(t, ValidateFilesFor(OpAssemble, []File{png, jpg}))

	err := ValidateFilesFor(OpMerge, []File{pdf, png})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "a.png")

	assert.ErrorIs(t, ValidateFilesFor(OpAssemble, []File{pdf}), ErrUnsupportedFormat)
	assert.ErrorIs(t, ValidateFilesFor(OpMerge, nil), ErrNoInputFiles)
	assert.ErrorIs(t, ValidateFilesFor(Operation("bogus"), []File{pdf}), ErrUnknownOperation)
}
