package request

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	// UploadKeyHeader carries the upload key for raw-body uploads
	UploadKeyHeader = "X-Upload-Key"

	// MaxUploadBytes caps the size of an uploaded chat export
	MaxUploadBytes = 32 << 20
)

// Upload is a chat export received over HTTP
type Upload struct {
	Source string
	Key    string
	Body   io.ReadCloser
}

// ErrNoFile is returned when a multipart upload has no "file" part
var ErrNoFile = errors.New(`multipart upload requires a "file" field`)

// ReadUpload accepts either a multipart form with a "file" field (and an
// optional "key" field) or the chat text as the raw request body. The
// caller must close Body.
func ReadUpload(w http.ResponseWriter, r *http.Request) (*Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
			return nil, fmt.Errorf("parse upload: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, ErrNoFile
		}
		return &Upload{
			Source: filepath.Base(header.Filename),
			Key:    keyFrom(r, r.FormValue("key")),
			Body:   file,
		}, nil
	}

	return &Upload{
		Source: strings.TrimSpace(r.URL.Query().Get("source")),
		Key:    keyFrom(r, ""),
		Body:   r.Body,
	}, nil
}

func keyFrom(r *http.Request, formKey string) string {
	if key := r.Header.Get(UploadKeyHeader); key != "" {
		return key
	}
	return formKey
}
