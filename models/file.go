package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimePDF  = "application/pdf"
	MimeTXT  = "text/plain"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowedMimeTypes = map[string]bool{
	MimePDF:  true,
	MimeTXT:  true,
	MimeDOC:  true,
	MimeDOCX: true,
}

// SelectedFile is the résumé document the visitor picked for analysis
type SelectedFile struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Content  []byte `json:"-"`
}

// Reader returns a fresh reader over the file content
func (f *SelectedFile) Reader() io.Reader {
	return bytes.NewReader(f.Content)
}

// Accepted reports whether the file may be submitted for analysis.
// A .txt name is accepted whatever media type the picker reported.
func (f *SelectedFile) Accepted() bool {
	if f == nil {
		return false
	}
	if allowedMimeTypes[baseMediaType(f.MimeType)] {
		return true
	}
	return strings.HasSuffix(f.Filename, ".txt")
}

// NewSelectedFile builds a SelectedFile from in-memory content and the declared media type
func NewSelectedFile(filename, mimeType string, content []byte) *SelectedFile {
	return &SelectedFile{
		Filename: filename,
		MimeType: mimeType,
		Size:     int64(len(content)),
		Content:  content,
	}
}

// OpenSelectedFile reads a file from disk and detects its media type from the content
func OpenSelectedFile(path string) (*SelectedFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mimeType := baseMediaType(mimetype.Detect(content).String())
	// OLE and zip containers are reported generically; trust the extension for those
	if !allowedMimeTypes[mimeType] {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".doc":
			if mimetype.Detect(content).Is("application/x-ole-storage") {
				mimeType = MimeDOC
			}
		case ".docx":
			if mimetype.Detect(content).Is("application/zip") {
				mimeType = MimeDOCX
			}
		}
	}

	return NewSelectedFile(filepath.Base(path), mimeType, content), nil
}

// baseMediaType strips parameters such as "; charset=utf-8"
func baseMediaType(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(base))
}
