package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/JaimeStill/campus/pkg/storage"
)

// MultipartMemory is the in-memory budget for multipart parsing; larger parts
// spill to temporary files.
const MultipartMemory = 8 << 20

// IsMultipart reports whether the request body is multipart/form-data.
func IsMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// FormValue returns the form value for key, or nil when the key was not sent.
// ParseMultipartForm must have been called.
func FormValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// FormFile returns the named file part as a storage.File with a closer for
// its body. All three results are nil when the field was not sent.
func FormFile(r *http.Request, field string) (*storage.File, io.Closer, error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	return &storage.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, f, nil
}

// BodyStatus maps a request body read or parse failure to a status code:
// 413 when a body limit was exceeded, 400 otherwise.
func BodyStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
