// Package fakeadmin is an in-process stand-in for the e-commerce admin API,
// used by tests to drive the checker end to end.
package fakeadmin

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	Email     = "admin@storybox.bg"
	Password  = "secret"
	ProductID = "6650f0c2a1b2c3d4e5f60718"
	AdminName = "Store Admin"

	signingKey = "fakeadmin-signing-key"
)

// Route keys used with Override and Drop. They match the mux patterns.
const (
	RouteLogin          = "POST /api/admin/login"
	RouteCategoriesGet  = "GET /api/admin/categories"
	RouteCategoriesPost = "POST /api/admin/categories"
	RouteUpload         = "POST /api/admin/upload"
	RouteProductsGet    = "GET /api/admin/products"
	RouteProductsPost   = "POST /api/admin/products"
	RouteProductGet     = "GET /api/admin/products/{id}"
	RouteProductPatch   = "PATCH /api/admin/products/{id}"
	RouteProductDelete  = "DELETE /api/admin/products/{id}"
)

type Reply struct {
	Status int
	Body   string
}

// Request is what the fake saw for one call.
type Request struct {
	Route         string
	Method        string
	Path          string
	Authorization string
	RunID         string
	Body          []byte
}

// Upload describes the last accepted file.
type Upload struct {
	Filename    string
	ContentType string
	Width       int
	Height      int
	URL         string
}

type Server struct {
	*httptest.Server

	Token string

	t         testing.TB
	mu        sync.Mutex
	overrides map[string]Reply
	drops     map[string]bool
	requests  []Request
	upload    Upload
}

// New starts the fake and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin-1",
		"email": Email,
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	s := &Server{Token: token, t: t, overrides: map[string]Reply{}, drops: map[string]bool{}}
	mux := http.NewServeMux()
	s.handle(mux, RouteLogin, false, s.login)
	s.handle(mux, RouteCategoriesGet, true, s.categoriesGet)
	s.handle(mux, RouteCategoriesPost, true, s.categoriesPost)
	s.handle(mux, RouteUpload, true, s.uploadFile)
	s.handle(mux, RouteProductsGet, true, s.productsGet)
	s.handle(mux, RouteProductsPost, true, s.productsPost)
	s.handle(mux, RouteProductGet, true, s.productGet)
	s.handle(mux, RouteProductPatch, true, s.productWrite)
	s.handle(mux, RouteProductDelete, true, s.productWrite)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Override makes route answer with a fixed status and body.
func (s *Server) Override(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = Reply{Status: status, Body: body}
}

// Drop makes route close the connection without writing a response.
func (s *Server) Drop(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops[route] = true
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the calls that matched route.
func (s *Server) RequestsTo(route string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Route == route {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) LastUpload() Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload
}

func (s *Server) handle(mux *http.ServeMux, route string, auth bool, h func(http.ResponseWriter, *http.Request, []byte)) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			var err error
			if body, err = io.ReadAll(r.Body); err != nil {
				s.t.Errorf("fakeadmin: read %s body: %v", route, err)
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Unreadable body"})
				return
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Route:         route,
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RunID:         r.Header.Get("X-Check-Run"),
			Body:          body,
		})
		reply, overridden := s.overrides[route]
		dropped := s.drops[route]
		s.mu.Unlock()

		if dropped {
			hj, ok := w.(http.Hijacker)
			if !ok {
				s.t.Errorf("fakeadmin: %s: response writer cannot hijack", route)
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				s.t.Errorf("fakeadmin: hijack %s: %v", route, err)
				return
			}
			_ = conn.Close()
			return
		}

		if overridden {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(reply.Status)
			_, _ = io.WriteString(w, reply.Body)
			return
		}
		if auth && r.Header.Get("Authorization") != "Bearer "+s.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
			return
		}
		h(w, r, body)
	})
}

func (s *Server) login(w http.ResponseWriter, _ *http.Request, body []byte) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(body, &creds); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Login failed"})
		return
	}
	if creds.Email != Email || creds.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   s.Token,
		"admin":   map[string]any{"email": Email, "name": AdminName, "role": "admin"},
	})
}

func (s *Server) categoriesGet(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": []map[string]any{
			{"id": "c1", "name": "Тениски", "slug": "teniski"},
			{"id": "c2", "name": "Чаши", "slug": "chashi"},
		},
	})
}

func (s *Server) categoriesPost(w http.ResponseWriter, _ *http.Request, body []byte) {
	var c map[string]any
	if err := json.Unmarshal(body, &c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid body"})
		return
	}
	c["id"] = "c3"
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "category": c})
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request, _ []byte) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	ct := header.Header.Get("Content-Type")
	if ct != "image/jpeg" && ct != "image/png" && ct != "image/webp" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid file type. Only JPEG, PNG, and WebP are allowed"})
		return
	}
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid image"})
		return
	}

	name := uuid.NewString()
	u := Upload{
		Filename:    header.Filename,
		ContentType: ct,
		Width:       cfg.Width,
		Height:      cfg.Height,
		URL:         fmt.Sprintf("/uploads/products/%s.jpg", name),
	}
	s.mu.Lock()
	s.upload = u
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"url":     u.URL,
		"thumbnails": map[string]string{
			"small":  fmt.Sprintf("/uploads/products/%s_small.jpg", name),
			"medium": fmt.Sprintf("/uploads/products/%s_medium.jpg", name),
			"large":  fmt.Sprintf("/uploads/products/%s_large.jpg", name),
		},
	})
}

func (s *Server) productsGet(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, map[string]any{
		"products": []map[string]any{
			{"id": "p1", "name": "Чаша", "sku": "MUG-1", "quantity": 4, "price": 12.5},
		},
		"stats": map[string]int{"totalProducts": 1, "totalQuantity": 4, "lowStockCount": 1},
	})
}

func (s *Server) productsPost(w http.ResponseWriter, _ *http.Request, body []byte) {
	if !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid body"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "productId": ProductID})
}

func (s *Server) productGet(w http.ResponseWriter, r *http.Request, _ []byte) {
	if r.PathValue("id") != ProductID {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product": map[string]any{
			"id":       ProductID,
			"name":     "Бродирана Тениска Premium",
			"variants": []map[string]any{{"id": "variant-1"}},
		},
	})
}

func (s *Server) productWrite(w http.ResponseWriter, r *http.Request, _ []byte) {
	if r.PathValue("id") != ProductID {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Product not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
