package gateway

import (
	"context"
	"fmt"
	"io"

	"case-portal/internal/ports/backend"
)

func (s *Session) UploadDocument(ctx context.Context, caseID int, filename string, content io.Reader) (backend.Document, error) {
	path := fmt.Sprintf("/cases/%d/upload/", caseID)
	var out backend.Document
	if err := s.c.hc.DoMultipart(ctx, path, s.headers(), filename, content, &out); err != nil {
		return backend.Document{}, normalizeErr(err, "upload failed")
	}
	return out, nil
}

func (s *Session) ListDocuments(ctx context.Context, caseID int) ([]backend.Document, error) {
	path := fmt.Sprintf("/cases/%d/documents/", caseID)
	var out []backend.Document
	if err := s.c.hc.DoJSON(ctx, "GET", path, s.headers(), nil, &out); err != nil {
		return nil, normalizeErr(err, "failed to fetch documents")
	}
	return out, nil
}

// DownloadDocument materializa el binario completo en memoria antes de
// devolverlo; no hay streaming en esta capa.
func (s *Session) DownloadDocument(ctx context.Context, caseID, fileID int) ([]byte, error) {
	path := fmt.Sprintf("/cases/%d/download/%d", caseID, fileID)
	raw, err := s.c.hc.DoBinary(ctx, path, s.headers())
	if err != nil {
		return nil, normalizeErr(err, "failed to download document")
	}
	return raw, nil
}
