// Package documents maneja los adjuntos de un caso: validación local del
// tipo de archivo, subida secuencial y descarga del binario.
package documents

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"case-portal/internal/ports/backend"
)

// ErrFileNotAllowed marca un archivo rechazado por la lista blanca local.
// Un archivo rechazado nunca llega a la red.
var ErrFileNotAllowed = errors.New("file type not allowed")

var (
	allowedExts = map[string]bool{
		".pdf":  true,
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
	allowedMIMEs = map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/png":       true,
	}
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// ValidateUpload acepta sii la extensión O el MIME están en la lista blanca.
func (s *Service) ValidateUpload(filename, mimeType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if allowedExts[ext] {
		return nil
	}
	if allowedMIMEs[strings.ToLower(strings.TrimSpace(mimeType))] {
		return nil
	}
	return ErrFileNotAllowed
}

// FileInput es un adjunto a subir.
type FileInput struct {
	Filename string
	MIMEType string
	Content  io.Reader
}

// UploadResult es el resultado por archivo de una subida en lote.
type UploadResult struct {
	Filename string            `json:"filename"`
	Document *backend.Document `json:"document,omitempty"`
	Err      string            `json:"error,omitempty"`
}

// UploadBatch sube los archivos uno por uno, en orden, y sigue adelante
// cuando uno falla. El caso ya existe cuando se llega acá: una subida
// fallida se reporta por archivo, nunca revierte la creación del caso.
func (s *Service) UploadBatch(ctx context.Context, api backend.API, caseID int, files []FileInput) []UploadResult {
	out := make([]UploadResult, 0, len(files))
	for _, f := range files {
		out = append(out, s.uploadOne(ctx, api, caseID, f))
	}
	return out
}

func (s *Service) uploadOne(ctx context.Context, api backend.API, caseID int, f FileInput) UploadResult {
	// El Content se cierra acá una vez consumido: los multipart grandes
	// respaldan en disco y dejan un descriptor abierto si nadie cierra.
	if c, ok := f.Content.(io.Closer); ok {
		defer c.Close()
	}

	res := UploadResult{Filename: f.Filename}
	if err := s.ValidateUpload(f.Filename, f.MIMEType); err != nil {
		res.Err = err.Error()
		return res
	}
	doc, err := api.UploadDocument(ctx, caseID, f.Filename, f.Content)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	res.Document = &doc
	return res
}

func (s *Service) List(ctx context.Context, api backend.API, caseID int) ([]backend.Document, error) {
	return api.ListDocuments(ctx, caseID)
}

func (s *Service) Download(ctx context.Context, api backend.API, caseID, fileID int) ([]byte, error) {
	return api.DownloadDocument(ctx, caseID, fileID)
}
