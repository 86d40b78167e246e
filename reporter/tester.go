package reporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"admincheck/toolkit"
)

const (
	StepLogin          = "Admin Login"
	StepCategoriesGet  = "Categories GET"
	StepCategoriesPost = "Categories POST"
	StepImageUpload    = "Image Upload"
	StepProductsGet    = "Products GET"
	StepProductsPost   = "Products POST"
	StepProductGet     = "Single Product GET"
	StepProductPatch   = "Single Product PATCH"
	StepProductDelete  = "Single Product DELETE"
)

const (
	pathLogin      = "/api/admin/login"
	pathCategories = "/api/admin/categories"
	pathUpload     = "/api/admin/upload"
	pathProducts   = "/api/admin/products"
)

var errMissingSuccess = errors.New("Response missing success flag")

// check describes one step: the request and how a 200 body is judged.
// validate returns the pass message, or an error naming the missing field.
type check struct {
	name    string
	method  string
	path    string
	payload any
	upload  *uploadPart

	// notFoundAware steps report 404 as not_found instead of a status mismatch.
	notFoundAware bool
	validate      func(doc gjson.Result) (string, error)
}

type uploadPart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// exec sends the request and records exactly one result. It returns the
// parsed body and whether the step passed.
func (s *Session) exec(ctx context.Context, c check) (gjson.Result, bool) {
	base := toolkit.TestResult{Name: c.name, Method: c.method, Path: c.path}

	var (
		resp toolkit.Response
		err  error
	)
	if c.upload != nil {
		resp, err = s.client.Upload(ctx, c.path, c.upload.field, c.upload.filename, c.upload.contentType, c.upload.data)
	} else {
		resp, err = s.client.DoJSON(ctx, c.method, c.path, c.payload)
	}
	base.Status = resp.Status
	base.LatencyMS = resp.Latency.Milliseconds()

	if err != nil {
		slog.Warn("tester.exec: request failed", "test", c.name, "error", err)
		s.fail(base, toolkit.FailureTransport, "Request failed", err.Error())
		return gjson.Result{}, false
	}

	body := string(resp.Body)
	switch {
	case resp.Status == http.StatusNotFound && c.notFoundAware:
		s.fail(base, toolkit.FailureNotFound, "Product not found", body)
		return gjson.Result{}, false
	case resp.Status != http.StatusOK:
		s.fail(base, toolkit.FailureStatus, fmt.Sprintf("HTTP %d", resp.Status), body)
		return gjson.Result{}, false
	case !resp.ValidJSON():
		s.fail(base, toolkit.FailureResponseParse, "Response is not valid JSON", body)
		return gjson.Result{}, false
	}

	doc := resp.JSON()
	msg, err := c.validate(doc)
	if err != nil {
		s.fail(base, toolkit.FailureMissingField, err.Error(), body)
		return doc, false
	}
	s.pass(base, msg)
	return doc, true
}

func requireSuccess(doc gjson.Result) error {
	if !doc.Get("success").Bool() {
		return errMissingSuccess
	}
	return nil
}

// Login authenticates and stores the token on the client.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	doc, ok := s.exec(ctx, check{
		name:    StepLogin,
		method:  http.MethodPost,
		path:    pathLogin,
		payload: payload,
		validate: func(doc gjson.Result) (string, error) {
			if !doc.Get("success").Bool() || doc.Get("token").String() == "" {
				return "", errors.New("Login response missing token")
			}
			name := doc.Get("admin.name").String()
			if name == "" {
				name = "Admin"
			}
			return fmt.Sprintf("Successfully authenticated as %s", name), nil
		},
	})
	if !ok {
		return false
	}

	token := doc.Get("token").String()
	s.client.SetToken(token)
	if info, err := toolkit.InspectToken(token); err == nil {
		slog.Info("tester.login: token", "subject", info.Subject, "role", info.Role, "expires_at", info.ExpiresAt)
		if info.Expired(time.Now()) {
			slog.Warn("tester.login: token already expired", "expires_at", info.ExpiresAt)
		}
	} else {
		slog.Debug("tester.login: token is not a JWT", "error", err)
	}
	return true
}

func (s *Session) CategoriesGet(ctx context.Context) bool {
	_, ok := s.exec(ctx, check{
		name:   StepCategoriesGet,
		method: http.MethodGet,
		path:   pathCategories,
		validate: func(doc gjson.Result) (string, error) {
			return fmt.Sprintf("Retrieved %d categories", countItems(doc.Get("categories"))), nil
		},
	})
	return ok
}

func (s *Session) CategoriesPost(ctx context.Context) bool {
	_, ok := s.exec(ctx, check{
		name:    StepCategoriesPost,
		method:  http.MethodPost,
		path:    pathCategories,
		payload: toolkit.CategoryFixture(),
		validate: func(doc gjson.Result) (string, error) {
			if err := requireSuccess(doc); err != nil {
				return "", err
			}
			return fmt.Sprintf("Created category '%s' with ID %s",
				orNone(doc.Get("category.name")), orNone(doc.Get("category.id"))), nil
		},
	})
	return ok
}

// ImageUpload posts a generated JPEG and returns the stored image URL, or
// "" when the upload did not succeed.
func (s *Session) ImageUpload(ctx context.Context) string {
	data, err := toolkit.SyntheticJPEG(toolkit.TestImageWidth, toolkit.TestImageHeight, toolkit.TestImageColor)
	if err != nil {
		slog.Error("tester.upload: image build failed", "error", err)
		s.fail(toolkit.TestResult{Name: StepImageUpload, Method: http.MethodPost, Path: pathUpload},
			toolkit.FailureFixture, "Failed to create test image", err.Error())
		return ""
	}

	doc, ok := s.exec(ctx, check{
		name:   StepImageUpload,
		method: http.MethodPost,
		path:   pathUpload,
		upload: &uploadPart{
			field:       "file",
			filename:    toolkit.TestImageFilename,
			contentType: toolkit.TestImageType,
			data:        data,
		},
		validate: func(doc gjson.Result) (string, error) {
			if !doc.Get("success").Bool() {
				return "", errors.New("Upload response missing success flag")
			}
			u := doc.Get("url").String()
			if u == "" {
				return "", errors.New("Upload response missing url")
			}
			return fmt.Sprintf("Uploaded image: %s, Generated %d thumbnails", u, len(doc.Get("thumbnails").Map())), nil
		},
	})
	if !ok {
		return ""
	}
	return doc.Get("url").String()
}

func (s *Session) ProductsGet(ctx context.Context) bool {
	_, ok := s.exec(ctx, check{
		name:   StepProductsGet,
		method: http.MethodGet,
		path:   pathProducts,
		validate: func(doc gjson.Result) (string, error) {
			stats := doc.Get("stats").Raw
			if stats == "" {
				stats = "{}"
			}
			return fmt.Sprintf("Retrieved %d products. Stats: %s", countItems(doc.Get("products")), stats), nil
		},
	})
	return ok
}

// ProductsPost creates the comprehensive product and returns its ID, or ""
// when creation failed or the server returned no ID.
func (s *Session) ProductsPost(ctx context.Context, coverURL string) string {
	doc, ok := s.exec(ctx, check{
		name:    StepProductsPost,
		method:  http.MethodPost,
		path:    pathProducts,
		payload: toolkit.ProductFixture(coverURL),
		validate: func(doc gjson.Result) (string, error) {
			if err := requireSuccess(doc); err != nil {
				return "", err
			}
			return fmt.Sprintf("Created comprehensive product with ID: %s", orNone(doc.Get("productId"))), nil
		},
	})
	if !ok {
		return ""
	}
	return doc.Get("productId").String()
}

func (s *Session) ProductGet(ctx context.Context, productID string) bool {
	_, ok := s.exec(ctx, check{
		name:          StepProductGet,
		method:        http.MethodGet,
		path:          productPath(productID),
		notFoundAware: true,
		validate: func(doc gjson.Result) (string, error) {
			return fmt.Sprintf("Retrieved product '%s' with %d variants",
				orNone(doc.Get("product.name")), countItems(doc.Get("product.variants"))), nil
		},
	})
	return ok
}

func (s *Session) ProductPatch(ctx context.Context, productID string) bool {
	_, ok := s.exec(ctx, check{
		name:          StepProductPatch,
		method:        http.MethodPatch,
		path:          productPath(productID),
		payload:       toolkit.ProductUpdateFixture(),
		notFoundAware: true,
		validate: func(doc gjson.Result) (string, error) {
			if err := requireSuccess(doc); err != nil {
				return "", err
			}
			return "Successfully updated product", nil
		},
	})
	return ok
}

func (s *Session) ProductDelete(ctx context.Context, productID string) bool {
	_, ok := s.exec(ctx, check{
		name:          StepProductDelete,
		method:        http.MethodDelete,
		path:          productPath(productID),
		notFoundAware: true,
		validate: func(doc gjson.Result) (string, error) {
			if err := requireSuccess(doc); err != nil {
				return "", err
			}
			return "Successfully deleted product", nil
		},
	})
	return ok
}

func productPath(productID string) string {
	return pathProducts + "/" + url.PathEscape(productID)
}

// countItems is the length of a listing field; anything but an array counts
// as empty.
func countItems(r gjson.Result) int {
	if !r.IsArray() {
		return 0
	}
	return len(r.Array())
}

func orNone(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return "None"
	}
	return r.String()
}
