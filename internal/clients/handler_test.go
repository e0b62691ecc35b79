package clients

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(NewMemoryRepo()), 2).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestClientCRUD(t *testing.T) {
	r := newTestRouter()

	resp := doJSON(t, r, http.MethodPost, "/api/v1/clients", map[string]string{
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created ClientResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Phone != nil {
		t.Fatalf("unexpected client: %+v", created)
	}

	resp = doJSON(t, r, http.MethodGet, "/api/v1/clients/"+created.ID, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodPut, "/api/v1/clients/"+created.ID, map[string]string{
		"full_name": "Jane Roe",
		"email":     "jane@example.com",
		"phone":     "600000000",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", resp.Code, resp.Body.String())
	}
	var updated ClientResponse
	_ = json.NewDecoder(resp.Body).Decode(&updated)
	if updated.FullName != "Jane Roe" || updated.Phone == nil || *updated.Phone != "600000000" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	resp = doJSON(t, r, http.MethodPost, "/api/v1/clients", map[string]string{
		"full_name": "Impostor",
		"email":     "jane@example.com",
	})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d", resp.Code)
	}

	resp = doJSON(t, r, http.MethodDelete, "/api/v1/clients/"+created.ID, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodGet, "/api/v1/clients/"+created.ID, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestClientCreateRejectsInvalidBody(t *testing.T) {
	r := newTestRouter()

	resp := doJSON(t, r, http.MethodPost, "/api/v1/clients", map[string]string{"full_name": "Jane"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	resp = doJSON(t, r, http.MethodPost, "/api/v1/clients", map[string]string{"full_name": "Jane", "email": "nope"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestClientListPaginates(t *testing.T) {
	r := newTestRouter()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		resp := doJSON(t, r, http.MethodPost, "/api/v1/clients", map[string]string{"full_name": "Client", "email": email})
		if resp.Code != http.StatusCreated {
			t.Fatalf("create: %d", resp.Code)
		}
	}

	resp := doJSON(t, r, http.MethodGet, "/api/v1/clients?page=2", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var page struct {
		CurrentPage int              `json:"current_page"`
		Pages       int              `json:"pages"`
		Count       int              `json:"count"`
		Next        *string          `json:"next"`
		Previous    *string          `json:"previous"`
		Results     []ClientResponse `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.CurrentPage != 2 || page.Pages != 2 || page.Count != 3 || len(page.Results) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Next != nil || page.Previous == nil {
		t.Fatalf("expected only a previous link, got next=%v previous=%v", page.Next, page.Previous)
	}
}
