package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"case-portal/internal/adapters/gateway"
	"case-portal/internal/ports/backend"
	"case-portal/internal/ports/backend/backendtest"
	"case-portal/internal/router"
)

// -------------------------
// Backend de prueba (REST sobre backendtest.Fake)
// -------------------------

var signingKey = []byte("clave-que-el-portal-no-conoce")

type testActor struct {
	user  backend.User
	token string
}

type testBackend struct {
	fake   *backendtest.Fake
	actors map[string]testActor // token -> actor
}

func signToken(t *testing.T, u backend.User) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      strconv.Itoa(u.ID),
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	tb := &testBackend{fake: backendtest.New(), actors: map[string]testActor{}}

	for _, u := range []backend.User{
		{ID: 1, Username: "ana", Email: "ana@example.com", Role: "claimant"},
		{ID: 3, Username: "root", Email: "root@example.com", Role: "admin"},
		{ID: 7, Username: "dr.gomez", Email: "gomez@example.com", Role: "gp"},
		{ID: 5, Username: "qa.ruiz", Email: "ruiz@example.com", Role: "qa"},
	} {
		tb.actors[signTokenFor(t, u)] = testActor{user: u, token: signTokenFor(t, u)}
	}
	tb.fake.GPs = []backend.GP{{ID: 7, Username: "dr.gomez"}}
	return tb
}

// signTokenFor cachea la firma por usuario para que el mismo actor siempre
// presente el mismo token.
var tokenCache = map[int]string{}

func signTokenFor(t *testing.T, u backend.User) string {
	if tok, ok := tokenCache[u.ID]; ok {
		return tok
	}
	tok := signToken(t, u)
	tokenCache[u.ID] = tok
	return tok
}

func (tb *testBackend) tokenFor(email string) (string, bool) {
	for tok, a := range tb.actors {
		if a.user.Email == email {
			return tok, true
		}
	}
	return "", false
}

// bind fija el actor del request en el Fake antes de despachar.
func (tb *testBackend) bind(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) <= len("Bearer ") {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		a, ok := tb.actors[authHeader[len("Bearer "):]]
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		tb.fake.User = a.user
		next(w, r)
	}
}

func (tb *testBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()

	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		_ = req.ParseForm()
		tok, ok := tb.tokenFor(req.PostFormValue("username"))
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		respond(w, http.StatusOK, backend.TokenResponse{AccessToken: tok, TokenType: "bearer"})
	})

	r.Get("/users/me", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		u, _ := tb.fake.CurrentUser(req.Context())
		respond(w, http.StatusOK, u)
	}))

	r.Post("/cases", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		var in backend.CreateCaseInput
		_ = json.NewDecoder(req.Body).Decode(&in)
		c, err := tb.fake.CreateCase(req.Context(), in)
		respondOr(w, http.StatusCreated, c, err)
	}))
	r.Get("/cases/my", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		out, err := tb.fake.MyCases(req.Context())
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Delete("/cases/{id}", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		err := tb.fake.DeleteCase(req.Context(), id)
		respondOr(w, http.StatusOK, map[string]string{"detail": "deleted"}, err)
	}))
	r.Post("/cases/{id}/upload/", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		if err := req.ParseMultipartForm(32 << 20); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad multipart")
			return
		}
		f, hdr, err := req.FormFile("file")
		if err != nil {
			writeDetail(w, http.StatusBadRequest, "missing file")
			return
		}
		defer f.Close()
		doc, err := tb.fake.UploadDocument(req.Context(), id, hdr.Filename, f)
		respondOr(w, http.StatusCreated, doc, err)
	}))
	r.Get("/cases/{id}/documents/", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		out, err := tb.fake.ListDocuments(req.Context(), id)
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Get("/cases/{id}/download/{fileID}", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		fileID, _ := strconv.Atoi(chi.URLParam(req, "fileID"))
		raw, err := tb.fake.DownloadDocument(req.Context(), id, fileID)
		if err != nil {
			writeDetail(w, http.StatusNotFound, "not found")
			return
		}
		_, _ = w.Write(raw)
	}))
	r.Get("/cases/{id}/discuss/", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		out, err := tb.fake.ListMessages(req.Context(), id)
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Post("/cases/{id}/discuss/", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		var in struct {
			Content string `json:"content"`
		}
		_ = json.NewDecoder(req.Body).Decode(&in)
		m, err := tb.fake.PostMessage(req.Context(), id, in.Content)
		respondOr(w, http.StatusCreated, m, err)
	}))

	r.Get("/admin/cases/all", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		out, err := tb.fake.AdminCases(req.Context())
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Get("/admin/gps", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		out, err := tb.fake.AdminGPs(req.Context())
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Get("/admin/cases/{id}", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		c, err := tb.fake.CaseDetails(req.Context(), id)
		respondOr(w, http.StatusOK, c, err)
	}))
	r.Post("/admin/cases/{id}/assign", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		var in backend.AssignInput
		_ = json.NewDecoder(req.Body).Decode(&in)
		err := tb.fake.AssignGP(req.Context(), id, in)
		respondOr(w, http.StatusOK, map[string]string{"detail": "assigned"}, err)
	}))

	r.Get("/gp/cases", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		out, err := tb.fake.GPCases(req.Context())
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Post("/gp/cases/{id}/decision", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		var in backend.DecisionInput
		_ = json.NewDecoder(req.Body).Decode(&in)
		err := tb.fake.SubmitDecision(req.Context(), id, in)
		respondOr(w, http.StatusOK, map[string]string{"detail": "decided"}, err)
	}))

	r.Get("/qa/cases", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		out, err := tb.fake.QACases(req.Context())
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Get("/qa/my-cases", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		out, err := tb.fake.MyQACases(req.Context())
		respondOr(w, http.StatusOK, out, err)
	}))
	r.Post("/qa/assign-random", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		c, err := tb.fake.AssignRandomQA(req.Context())
		if err != nil {
			writeDetail(w, http.StatusNotFound, "No QA cases available")
			return
		}
		respond(w, http.StatusOK, c)
	}))
	r.Post("/qa/cases/{id}/feedback", tb.bind(func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		var in backend.FeedbackInput
		_ = json.NewDecoder(req.Body).Decode(&in)
		err := tb.fake.SubmitQAFeedback(req.Context(), id, in)
		respondOr(w, http.StatusOK, map[string]string{"detail": "recorded"}, err)
	}))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOr(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	respond(w, status, v)
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"detail": msg})
}

// -------------------------
// Helpers del portal
// -------------------------

func newPortal(t *testing.T, tb *testBackend) *httptest.Server {
	t.Helper()
	be := tb.server(t)

	gw, err := gateway.NewClient(gateway.Config{BaseURL: be.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	srv := httptest.NewServer(router.NewRouter(router.Options{Gateway: gw}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func login(t *testing.T, portalURL, email string) string {
	t.Helper()
	st, body := doJSON(t, portalURL, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": "secreta",
	})
	if st != http.StatusOK {
		t.Fatalf("login %s: status %d body=%s", email, st, body)
	}
	var tok backend.TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		t.Fatalf("login decode: %v", err)
	}
	return tok.AccessToken
}

func createCaseMultipart(t *testing.T, portalURL, token, description, dob, filename string) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("description", description)
	_ = mw.WriteField("date_of_birth", dob)
	if filename != "" {
		part, err := mw.CreateFormFile("files", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = part.Write([]byte("%PDF-1.4 test"))
	}
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, portalURL+"/cases/", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

// -------------------------
// Tests
// -------------------------

func TestAdmission_RoleGates(t *testing.T) {
	tb := newTestBackend(t)
	portal := newPortal(t, tb)

	claimantTok := login(t, portal.URL, "ana@example.com")

	// sin token => 401 en toda ruta protegida
	if st, _ := doJSON(t, portal.URL, http.MethodGet, "/dashboard", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", st)
	}
	// token de otro rol => 403
	if st, _ := doJSON(t, portal.URL, http.MethodGet, "/admin-dashboard", claimantTok, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for claimant on admin route, got %d", st)
	}
	// token basura => 403
	if st, _ := doJSON(t, portal.URL, http.MethodGet, "/dashboard", "no-es-un-jwt", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for malformed token, got %d", st)
	}
	// rol correcto => 200
	if st, body := doJSON(t, portal.URL, http.MethodGet, "/dashboard", claimantTok, nil); st != http.StatusOK {
		t.Fatalf("expected 200 for claimant dashboard, got %d body=%s", st, body)
	}
	// /users/me admite cualquier rol
	if st, _ := doJSON(t, portal.URL, http.MethodGet, "/users/me", claimantTok, nil); st != http.StatusOK {
		t.Fatalf("expected 200 for /users/me")
	}
}

func TestScenarioA_ClaimantSubmitsCaseWithAttachment(t *testing.T) {
	tb := newTestBackend(t)
	portal := newPortal(t, tb)
	tok := login(t, portal.URL, "ana@example.com")

	st, body := createCaseMultipart(t, portal.URL, tok, "knee pain", "1990-01-01", "informe.pdf")
	if st != http.StatusCreated {
		t.Fatalf("create case: status %d body=%s", st, body)
	}
	var created struct {
		Case struct {
			ID          int    `json:"id"`
			StatusLabel string `json:"status_label"`
		} `json:"case"`
		Uploads []struct {
			Err string `json:"error"`
		} `json:"uploads"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if len(created.Uploads) != 1 || created.Uploads[0].Err != "" {
		t.Fatalf("expected one successful upload: %s", body)
	}

	st, body = doJSON(t, portal.URL, http.MethodGet, "/dashboard", tok, nil)
	if st != http.StatusOK {
		t.Fatalf("dashboard: %d", st)
	}
	var dash struct {
		Created []struct {
			ID          int    `json:"id"`
			StatusLabel string `json:"status_label"`
		} `json:"created"`
	}
	if err := json.Unmarshal(body, &dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if len(dash.Created) != 1 || dash.Created[0].StatusLabel != "SUBMITTED" {
		t.Fatalf("expected one SUBMITTED case in created bucket: %s", body)
	}

	st, body = doJSON(t, portal.URL, http.MethodGet, fmt.Sprintf("/cases/%d", created.Case.ID), tok, nil)
	if st != http.StatusOK {
		t.Fatalf("detail: %d body=%s", st, body)
	}
	var detail struct {
		Documents []struct {
			Filename string `json:"filename"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if len(detail.Documents) != 1 || detail.Documents[0].Filename != "informe.pdf" {
		t.Fatalf("expected exactly one document: %s", body)
	}
}

func TestScenarioB_AdminRejectRemovesFromPendingQueue(t *testing.T) {
	tb := newTestBackend(t)
	tb.fake.SeedCase(backend.Case{ID: 10, ClaimantID: 1, Description: "vague", Status: backend.StatusPending})
	portal := newPortal(t, tb)
	tok := login(t, portal.URL, "root@example.com")

	if st, body := doJSON(t, portal.URL, http.MethodPost, "/admin/cases/10/review", tok, nil); st != http.StatusOK {
		t.Fatalf("review: %d body=%s", st, body)
	}
	if st, body := doJSON(t, portal.URL, http.MethodPost, "/admin/review/reject", tok, map[string]string{
		"comment": "insufficient detail",
	}); st != http.StatusOK {
		t.Fatalf("reject: %d body=%s", st, body)
	}

	st, body := doJSON(t, portal.URL, http.MethodGet, "/admin-dashboard", tok, nil)
	if st != http.StatusOK {
		t.Fatalf("dashboard: %d", st)
	}
	var dash struct {
		Pending []any `json:"pending"`
		Stats   struct {
			Allotted int `json:"allotted"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &dash); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dash.Pending) != 0 {
		t.Fatalf("rejected case still pending: %s", body)
	}
	if dash.Stats.Allotted != 0 {
		t.Fatalf("rejected case must not require assignment: %s", body)
	}
}

func TestScenarioC_AdminAssignIncrementsAllotted(t *testing.T) {
	tb := newTestBackend(t)
	tb.fake.SeedCase(backend.Case{ID: 10, ClaimantID: 1, Description: "knee pain", Status: backend.StatusPending})
	portal := newPortal(t, tb)
	tok := login(t, portal.URL, "root@example.com")

	if st, body := doJSON(t, portal.URL, http.MethodPost, "/admin/cases/10/review", tok, nil); st != http.StatusOK {
		t.Fatalf("review: %d body=%s", st, body)
	}
	if st, body := doJSON(t, portal.URL, http.MethodPost, "/admin/review/approve", tok, map[string]string{
		"comment": "paperwork complete",
	}); st != http.StatusOK {
		t.Fatalf("advance: %d body=%s", st, body)
	}

	// guardas: faltan campos => 400 y sin efecto
	if st, _ := doJSON(t, portal.URL, http.MethodPost, "/admin/assign", tok, map[string]any{
		"specialty": "", "gp_id": 7, "sla_days": 5,
	}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 on incomplete assign, got %d", st)
	}

	st, body := doJSON(t, portal.URL, http.MethodPost, "/admin/assign", tok, map[string]any{
		"specialty": "Cardiology", "gp_id": 7, "sla_days": 5,
	})
	if st != http.StatusOK {
		t.Fatalf("assign: %d body=%s", st, body)
	}
	var dash struct {
		Cases []struct {
			ID     int    `json:"id"`
			GPName string `json:"gp_name"`
		} `json:"cases"`
		Stats struct {
			Allotted int `json:"allotted"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &dash); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dash.Stats.Allotted != 1 {
		t.Fatalf("allotted should increment: %s", body)
	}
	if dash.Cases[0].GPName != "dr.gomez" {
		t.Fatalf("assigned case should display GP username: %s", body)
	}
}

func TestScenarioD_QAFeedbackMovesCaseToReadyToGo(t *testing.T) {
	tb := newTestBackend(t)
	tb.fake.SeedCase(backend.Case{ID: 42, ClaimantID: 1, Description: "knee pain", Status: backend.StatusQAPending})
	portal := newPortal(t, tb)
	tok := login(t, portal.URL, "ruiz@example.com")

	if st, body := doJSON(t, portal.URL, http.MethodPost, "/qa/cases/42/expand", tok, nil); st != http.StatusOK {
		t.Fatalf("expand: %d body=%s", st, body)
	}
	if st, body := doJSON(t, portal.URL, http.MethodPost, "/qa/comment-toggle", tok, nil); st != http.StatusOK {
		t.Fatalf("toggle: %d body=%s", st, body)
	}
	st, body := doJSON(t, portal.URL, http.MethodPost, "/qa/feedback", tok, map[string]string{
		"decision": "good", "comment": "looks good",
	})
	if st != http.StatusOK {
		t.Fatalf("feedback: %d body=%s", st, body)
	}
	var dash struct {
		Pool  []any `json:"pool"`
		Stats struct {
			ReadyToGo int `json:"ready_to_go"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(body, &dash); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(dash.Pool) != 0 {
		t.Fatalf("case 42 should leave the pool: %s", body)
	}
	if dash.Stats.ReadyToGo != 1 {
		t.Fatalf("case 42 should be ready to go: %s", body)
	}

	// ya no se puede expandir como pendiente
	if st, _ := doJSON(t, portal.URL, http.MethodPost, "/qa/cases/42/expand", tok, nil); st != http.StatusNotFound {
		t.Fatalf("closed case should not be expandable, got %d", st)
	}
}

func TestGPFlow_ClarifyAndDecide(t *testing.T) {
	tb := newTestBackend(t)
	deadline := time.Now().Add(5 * 24 * time.Hour)
	tb.fake.SeedCase(backend.Case{ID: 20, ClaimantID: 1, Description: "back pain", Status: backend.StatusAssigned, AssignedGPID: 7, SLADeadline: &deadline})
	portal := newPortal(t, tb)
	tok := login(t, portal.URL, "gomez@example.com")

	if st, body := doJSON(t, portal.URL, http.MethodPost, "/gp/cases/20/view", tok, nil); st != http.StatusOK {
		t.Fatalf("view: %d body=%s", st, body)
	}
	st, body := doJSON(t, portal.URL, http.MethodPost, "/gp/clarify", tok, map[string]string{
		"content": "¿hace cuánto el dolor?",
	})
	if st != http.StatusOK {
		t.Fatalf("clarify: %d body=%s", st, body)
	}

	// decisión sin comentario => 400
	if st, _ := doJSON(t, portal.URL, http.MethodPost, "/gp/decision", tok, map[string]string{
		"decision": "approve", "comment": "",
	}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 without comment, got %d", st)
	}

	st, body = doJSON(t, portal.URL, http.MethodPost, "/gp/decision", tok, map[string]string{
		"decision": "approve", "comment": "todo en orden",
	})
	if st != http.StatusOK {
		t.Fatalf("decision: %d body=%s", st, body)
	}

	c, _ := tb.fake.CaseDetails(context.Background(), 20)
	if c.Status != backend.StatusQAPending {
		t.Fatalf("approved case should enter QA pool, got %s", c.Status)
	}
}
