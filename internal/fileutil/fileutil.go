// Package fileutil reads decoded source text for the parser: plain or
// xz-compressed files, with a leading UTF-8 BOM stripped. Character
// encoding detection is out of scope; input is assumed UTF-8.
package fileutil

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/sfmkit/core/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadSource reads the file at path and returns its text. Files ending
// in .xz are decompressed transparently.
func ReadSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound("source file", path)
		}
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xzr, err := xz.NewReader(f)
		if err != nil {
			return nil, errors.NewIO("decompress", path, err)
		}
		r = xzr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return StripBOM(data), nil
}

// StripBOM removes a leading UTF-8 byte order mark, if present.
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}
