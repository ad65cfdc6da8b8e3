package core

import (
	"bytes"
	"fmt"
)

var (
	pdfMagic  = []byte("%PDF-")
	pngMagic  = []byte("\x89PNG\r\n\x1a\n")
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// IsPDF sniffs the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// IsImage sniffs the PNG and JPEG signatures.
func IsImage(data []byte) bool {
	return bytes.HasPrefix(data, pngMagic) || bytes.HasPrefix(data, jpegMagic)
}

// ValidateFilesFor checks every input file against the operation's expected
// format. Merge, Compress, and Rasterize take PDFs; Assemble takes images.
// The first offending file is reported by name.
func ValidateFilesFor(op Operation, files []File) error {
	if len(files) == 0 {
		return ErrNoInputFiles
	}
	for _, f := range files {
		var ok bool
		switch op {
		case OpMerge, OpCompress, OpRasterize:
			ok = IsPDF(f.Data)
		case OpAssemble:
			ok = IsImage(f.Data)
		default:
			return ErrUnknownOperation
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.Name)
		}
	}
	return nil
}
