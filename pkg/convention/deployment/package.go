package deployment

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/linecard/filelink/pkg/convention/manifest"
	"github.com/linecard/filelink/pkg/fault"
	"github.com/linecard/filelink/pkg/service/function"
)

var zipMagic = []byte("PK\x03\x04")

// Package resolves the function code. An image URI is used as is, a zip artifact is uploaded
// untouched, anything else is taken to be the bootstrap executable and zipped in memory.
func Package(spec manifest.FunctionSpec) (function.Code, error) {
	if spec.ImageUri != "" {
		return function.Code{ImageUri: spec.ImageUri}, nil
	}

	if spec.Artifact == "" {
		return function.Code{}, fmt.Errorf("%w: function needs an artifact or an image uri", fault.ErrInvalidConfig)
	}

	content, err := os.ReadFile(spec.Artifact)
	if err != nil {
		return function.Code{}, fmt.Errorf("%w: artifact %s: %w", fault.ErrInvalidConfig, spec.Artifact, err)
	}

	if bytes.HasPrefix(content, zipMagic) {
		return function.Code{ZipFile: content}, nil
	}

	archive, err := Bootstrap(content)
	if err != nil {
		return function.Code{}, err
	}

	return function.Code{ZipFile: archive}, nil
}

// Bootstrap zips executable as the single executable entry the provided runtime starts.
func Bootstrap(executable []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zip.NewWriter(&buf)

	header := &zip.FileHeader{
		Name:     function.Handler,
		Method:   zip.Deflate,
		Modified: time.Unix(0, 0).UTC(),
	}
	header.SetMode(0o755)

	entry, err := w.CreateHeader(header)
	if err != nil {
		return nil, err
	}

	if _, err := entry.Write(executable); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
