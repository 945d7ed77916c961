package todo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-todo-go-stdlib/internal/auth"
)

func newTestHandler(store *fakeStore) *Handler {
	return NewHandler(NewTodoService(store), zap.NewNop().Sugar())
}

func authedRequest(method, target string, body io.Reader, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func bodyCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body.Code
}

func seed(t *testing.T, store *fakeStore, userID int64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := store.Create(t.Context(), fmt.Sprintf("todo %d", i), "", userID); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestListHandler_InvalidQuery(t *testing.T) {
	h := newTestHandler(newFakeStore())
	cases := []struct {
		query string
		code  string
	}{
		{"?page=0", "INVALID_PAGE"},
		{"?page=-3", "INVALID_PAGE"},
		{"?page=abc", "INVALID_PAGE"},
		{"?limit=0", "INVALID_LIMIT"},
		{"?limit=101", "INVALID_LIMIT"},
		{"?limit=ten", "INVALID_LIMIT"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		h.List(rec, authedRequest(http.MethodGet, "/api/todos"+c.query, nil, 1))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", c.query, rec.Code)
		}
		if code := bodyCode(t, rec); code != c.code {
			t.Fatalf("%s: code = %q, want %q", c.query, code, c.code)
		}
	}
}

func TestListHandler_PaginationEnvelope(t *testing.T) {
	store := newFakeStore()
	seed(t, store, 1, 15)
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/todos?page=2&limit=10", nil, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 5 {
		t.Fatalf("page 2 of 15 with limit 10 = %d items, want 5", len(resp.Data))
	}
	want := Pagination{Page: 2, Limit: 10, Total: 15, TotalPages: 2}
	if resp.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", resp.Pagination, want)
	}
}

func TestListHandler_Defaults(t *testing.T) {
	store := newFakeStore()
	seed(t, store, 1, 3)
	h := newTestHandler(store)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/todos", nil, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Pagination{Page: 1, Limit: 10, Total: 3, TotalPages: 1}
	if resp.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", resp.Pagination, want)
	}
}

func TestCreateHandler(t *testing.T) {
	h := newTestHandler(newFakeStore())

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/todos",
		strings.NewReader(`{"title":"write tests","description":"thoroughly"}`), 1))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		IsDone      bool   `json:"is_done"`
		UserID      int64  `json:"user_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Title != "write tests" || created.Description != "thoroughly" || created.IsDone || created.UserID != 1 {
		t.Fatalf("created = %+v", created)
	}
}

func TestCreateHandler_MissingBody(t *testing.T) {
	h := newTestHandler(newFakeStore())
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/todos", strings.NewReader(""), 1))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := bodyCode(t, rec); code != "MISSING_BODY" {
		t.Fatalf("code = %q, want MISSING_BODY", code)
	}
}

func TestCreateHandler_MissingTitle(t *testing.T) {
	h := newTestHandler(newFakeStore())
	for _, body := range []string{`{}`, `{"title":""}`, `{"title":"   "}`} {
		rec := httptest.NewRecorder()
		h.Create(rec, authedRequest(http.MethodPost, "/api/todos", strings.NewReader(body), 1))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rec.Code)
		}
		if code := bodyCode(t, rec); code != "MISSING_TITLE" {
			t.Fatalf("body %s: code = %q, want MISSING_TITLE", body, code)
		}
	}
}

func TestGetHandler_CrossUser(t *testing.T) {
	store := newFakeStore()
	seed(t, store, 1, 1)
	h := newTestHandler(store)

	req := authedRequest(http.MethodGet, "/api/todos/1", nil, 2)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if code := bodyCode(t, rec); code != "TODO_NOT_FOUND" {
		t.Fatalf("code = %q, want TODO_NOT_FOUND", code)
	}
}

func TestUpdateHandler_EmptyPatch(t *testing.T) {
	store := newFakeStore()
	seed(t, store, 1, 1)
	h := newTestHandler(store)

	req := authedRequest(http.MethodPut, "/api/todos/1", strings.NewReader(`{}`), 1)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "todo 0" {
		t.Fatalf("unchanged todo not returned: %+v", got)
	}
	if store.updates != 0 {
		t.Fatalf("empty patch issued %d writes, want 0", store.updates)
	}
}

func TestUpdateHandler_NotFound(t *testing.T) {
	h := newTestHandler(newFakeStore())
	req := authedRequest(http.MethodPut, "/api/todos/42", strings.NewReader(`{"is_done":true}`), 1)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	h.Update(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if code := bodyCode(t, rec); code != "TODO_NOT_FOUND" {
		t.Fatalf("code = %q, want TODO_NOT_FOUND", code)
	}
}

func TestDeleteHandler(t *testing.T) {
	store := newFakeStore()
	seed(t, store, 1, 1)
	h := newTestHandler(store)

	// another user cannot delete
	req := authedRequest(http.MethodDelete, "/api/todos/1", nil, 2)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user status = %d, want 404", rec.Code)
	}

	// the owner can
	req = authedRequest(http.MethodDelete, "/api/todos/1", nil, 1)
	req.SetPathValue("id", "1")
	rec = httptest.NewRecorder()
	h.Delete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message == "" {
		t.Fatalf("delete response must carry a message")
	}
}
