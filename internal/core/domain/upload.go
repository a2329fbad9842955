package domain

import "io"

// DefaultMaxUploadSize is the upload size limit when none is configured.
const DefaultMaxUploadSize = "10MB"

// DefaultUploadExtensions are the file types the backend accepts.
var DefaultUploadExtensions = []string{".pdf", ".doc", ".docx", ".txt"}

// File is a named stream to send as a multipart part.
type File struct {
	// Name is the file name, including extension.
	Name string

	// Size is the content length in bytes. Negative if unknown.
	Size int64

	// Content is read once by the transport.
	Content io.Reader
}

// UploadRequest is a document upload: a file plus a required title.
type UploadRequest struct {
	File  *File
	Title string
}
