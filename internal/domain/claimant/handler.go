package claimant

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"case-portal/internal/domain/documents"
	"case-portal/internal/middleware"
	"case-portal/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 32 << 20

func RegisterRoutes(r chi.Router, svc *Service, sessions backend.SessionFunc) {
	r.Get("/dashboard", dashboardHandler(svc, sessions))

	r.Route("/cases", func(cr chi.Router) {
		cr.Post("/", createHandler(svc, sessions))
		cr.Get("/{caseID}", detailHandler(svc, sessions))
		cr.Delete("/{caseID}", deleteHandler(svc, sessions))
		cr.Post("/{caseID}/documents", uploadHandler(svc, sessions))
		cr.Get("/{caseID}/documents/{fileID}/download", downloadHandler(svc, sessions))
		cr.Post("/{caseID}/documents/{fileID}/remove-local", hideDocHandler(svc))
		cr.Post("/{caseID}/discussion", replyHandler(svc, sessions))
	})
}

type replyRequest struct {
	Content string `json:"content"`
}

func dashboardHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		view, err := svc.Dashboard(r.Context(), sessions(token))
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// createHandler recibe multipart: campos description y date_of_birth más
// cero o más archivos bajo "files".
func createHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		files, err := formFiles(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable attachment")
			return
		}

		result, err := svc.Create(r.Context(), sessions(token), CreateForm{
			Description: r.FormValue("description"),
			DateOfBirth: r.FormValue("date_of_birth"),
		}, files)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				writeError(w, http.StatusBadRequest, "description and date of birth are required")
				return
			}
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)
	}
}

func uploadHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		files, err := formFiles(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable attachment")
			return
		}

		results := svc.docs.UploadBatch(r.Context(), sessions(token), caseID, files)
		writeJSON(w, http.StatusOK, results)
	}
}

func detailHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}

		view, err := svc.Detail(r.Context(), sessions(token), claims.UserID, caseID)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				writeError(w, http.StatusNotFound, "case not found")
				return
			}
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func deleteHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}

		if err := svc.Delete(r.Context(), sessions(token), claims.UserID, caseID); err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"detail": "case deleted"})
	}
}

func downloadHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		caseID, err1 := strconv.Atoi(chi.URLParam(r, "caseID"))
		fileID, err2 := strconv.Atoi(chi.URLParam(r, "fileID"))
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		raw, err := svc.Download(r.Context(), sessions(token), caseID, fileID)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
	}
}

func hideDocHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		caseID, err1 := strconv.Atoi(chi.URLParam(r, "caseID"))
		fileID, err2 := strconv.Atoi(chi.URLParam(r, "fileID"))
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}

		svc.HideDocument(claims.UserID, caseID, fileID)
		writeJSON(w, http.StatusOK, map[string]string{
			"detail": "document hidden locally; it still exists on the server",
		})
	}
}

func replyHandler(svc *Service, sessions backend.SessionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())

		caseID, err := strconv.Atoi(chi.URLParam(r, "caseID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid case id")
			return
		}

		var req replyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		msgs, err := svc.Reply(r.Context(), sessions(token), caseID, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, ErrReplyBlocked):
				writeError(w, http.StatusConflict, "reply available after a GP message")
			case errors.Is(err, ErrValidation):
				writeError(w, http.StatusBadRequest, "message content required")
			default:
				writeBackendError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func formFiles(r *http.Request) ([]documents.FileInput, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := make([]documents.FileInput, 0)
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		files = append(files, documents.FileInput{
			Filename: fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Content:  f,
		})
	}
	return files, nil
}

func writeBackendError(w http.ResponseWriter, err error) {
	type statusCoder interface{ HTTPStatus() int }
	var sc statusCoder
	if errors.As(err, &sc) {
		writeError(w, sc.HTTPStatus(), err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
