package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-insights/internal/auth"
	"retail-insights/internal/domain"
	"retail-insights/internal/model"
	"retail-insights/pkg/router"
)

type fakeInsights struct {
	products  []model.SummaryRecord
	pricing   []model.PricingRecord
	marketing []model.MarketingRecord
	report    *model.TrendingReport
	err       error
	lastLimit int
}

func (f *fakeInsights) Products(_ context.Context, limit int) ([]model.SummaryRecord, error) {
	f.lastLimit = limit
	return f.products, f.err
}

func (f *fakeInsights) Pricing(context.Context) ([]model.PricingRecord, error) {
	return f.pricing, f.err
}

func (f *fakeInsights) Marketing(context.Context) ([]model.MarketingRecord, error) {
	return f.marketing, f.err
}

func (f *fakeInsights) Trending(context.Context) (*model.TrendingReport, error) {
	return f.report, f.err
}

type fakeAuth struct {
	users map[string]*model.User
}

func (f *fakeAuth) Register(_ context.Context, name, email, _ string) (*model.User, error) {
	if _, ok := f.users[email]; ok {
		return nil, domain.NewAlreadyExistsError("user", email)
	}
	u := &model.User{ID: "id-" + name, Name: name, Email: email}
	f.users[email] = u
	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*auth.Session, error) {
	u, ok := f.users[email]
	if !ok || password != "password1" {
		return nil, domain.NewUnauthorizedError("invalid email or password")
	}
	return &auth.Session{Token: "token-" + u.ID, User: u}, nil
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	for _, u := range f.users {
		if token == "token-"+u.ID {
			return u, nil
		}
	}
	return nil, domain.NewUnauthorizedError("invalid or expired token")
}

type fakeInstaller struct {
	source    string
	body      string
	requested string
	err       error
}

func (f *fakeInstaller) Install(_ context.Context, requested, originalName string, r io.Reader) (*model.Upload, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(r)
	f.body = string(data)
	f.requested = requested
	return &model.Upload{ID: "up-1", Source: f.source, OriginalName: originalName, Rows: 1}, nil
}

type fakeNotifier struct{ calls int }

func (f *fakeNotifier) NotifyAsync(context.Context) bool {
	f.calls++
	return true
}

type fakeUploads struct{ uploads []model.Upload }

func (f *fakeUploads) ListUploads(_ context.Context, limit int) ([]model.Upload, error) {
	if limit < len(f.uploads) {
		return f.uploads[:limit], nil
	}
	return f.uploads, nil
}

type testServer struct {
	router    *router.Router
	insights  *fakeInsights
	auth      *fakeAuth
	installer *fakeInstaller
	notifier  *fakeNotifier
}

func newTestServer() *testServer {
	ts := &testServer{
		router:    router.New(),
		insights:  &fakeInsights{},
		auth:      &fakeAuth{users: map[string]*model.User{}},
		installer: &fakeInstaller{source: model.SourceSubmission},
		notifier:  &fakeNotifier{},
	}
	h := New(Deps{
		Insights:  ts.insights,
		Auth:      ts.auth,
		Installer: ts.installer,
		Notifier:  ts.notifier,
		Uploads:   &fakeUploads{uploads: []model.Upload{{ID: "a"}, {ID: "b"}}},
	})

	r := ts.router
	r.GET("/api/health", h.Health)
	r.GET("/api/products", h.GetProducts)
	r.GET("/api/products/export", h.ExportProducts)
	r.GET("/api/products/pricing", h.GetPricing)
	r.GET("/api/products/trending", h.GetTrending)
	r.GET("/api/marketing", h.GetMarketing)
	r.POST("/api/upload/csv", h.UploadCSV)
	r.GET("/api/uploads", h.RequireAuth(h.ListUploads))
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/users/me", h.RequireAuth(h.Me))
	r.NotFound(NotFound)
	return ts
}

func (ts *testServer) do(req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var body map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		json.Unmarshal(rec.Body.Bytes(), &body)
	}
	return rec, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartRequest(t *testing.T, fields map[string]string, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		part.Write([]byte(content))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/csv", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHealth(t *testing.T) {
	ts := newTestServer()

	rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["timestamp"])

	data := body["data"].(map[string]interface{})
	assert.Contains(t, data["routes"], "products")
}

func TestGetProducts(t *testing.T) {
	ts := newTestServer()
	ts.insights.products = []model.SummaryRecord{{ID: 1, Name: "Department 1", Count: 2, TotalSales: 400, AverageSales: 200}}

	rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/products?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, ts.insights.lastLimit)

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Department 1", first["name"])
	assert.Equal(t, 200.0, first["averageSales"])
}

func TestGetProducts_BadLimit(t *testing.T) {
	ts := newTestServer()

	for _, limit := range []string{"abc", "0", "-1"} {
		rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/products?limit="+limit, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
		assert.Equal(t, false, body["success"])
	}
}

func TestDataEndpoints_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewSourceNotFoundError("submission", nil), http.StatusNotFound, "SOURCE_NOT_FOUND"},
		{domain.NewInputError("submission", "file is empty", nil), http.StatusUnprocessableEntity, "INPUT_ERROR"},
		{domain.NewMalformedInputError(3, nil), http.StatusUnprocessableEntity, "MALFORMED_INPUT"},
		{domain.NewFillerUnavailableError(), http.StatusInternalServerError, "FILLER_UNAVAILABLE"},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		ts := newTestServer()
		ts.insights.err = tc.err

		for _, path := range []string{"/api/products", "/api/products/pricing", "/api/marketing", "/api/products/trending"} {
			rec, body := ts.do(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, tc.status, rec.Code, path)
			assert.Equal(t, false, body["success"], path)
			assert.Equal(t, tc.code, body["code"], path)
		}
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	ts := newTestServer()
	ts.insights.err = domain.NewInternalError(io.ErrUnexpectedEOF)

	_, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/marketing", nil))
	assert.Equal(t, "internal server error", body["error"])
}

func TestGetPricing_NullFields(t *testing.T) {
	ts := newTestServer()
	ts.insights.pricing = []model.PricingRecord{{ID: 1, Name: "Bread"}}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/pricing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"currentPrice":null`)
	assert.Contains(t, rec.Body.String(), `"priceChange":null`)
}

func TestExportProducts(t *testing.T) {
	ts := newTestServer()
	ts.insights.products = []model.SummaryRecord{{ID: 1, Name: "Department 1"}}

	rec, _ := ts.do(httptest.NewRequest(http.MethodGet, "/api/products/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Department 1")
}

func TestUploadCSV(t *testing.T) {
	ts := newTestServer()

	rec, body := ts.do(multipartRequest(t, map[string]string{"source": "submission"}, "s.csv", "Id,Weekly_Sales\n1_1_x,1\n"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Id,Weekly_Sales\n1_1_x,1\n", ts.installer.body)
	assert.Equal(t, "submission", ts.installer.requested)
	assert.Equal(t, 0, ts.notifier.calls)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, false, data["notificationQueued"])
}

func TestUploadCSV_TrendingTriggersNotification(t *testing.T) {
	ts := newTestServer()
	ts.installer.source = model.SourceTrending

	rec, body := ts.do(multipartRequest(t, nil, "trending_products_final_full_train.csv", "Product Name,Trend Score\nA,1\n"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ts.notifier.calls)
	assert.Equal(t, true, body["data"].(map[string]interface{})["notificationQueued"])
}

func TestUploadCSV_Failures(t *testing.T) {
	ts := newTestServer()

	rec, body := ts.do(multipartRequest(t, map[string]string{"source": "x"}, "", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", body["error"])

	ts.installer.err = domain.NewInputError("submission", "missing required field(s): Id", nil)
	rec, _ = ts.do(multipartRequest(t, nil, "s.csv", "foo\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, ts.notifier.calls)
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer()

	rec, body := ts.do(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"password1"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	user := body["data"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "PasswordHash")

	rec, _ = ts.do(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"password1"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = ts.do(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"wrong"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = ts.do(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"password1"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	token := body["data"].(map[string]interface{})["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body = ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ada", body["data"].(map[string]interface{})["name"])

	req = httptest.NewRequest(http.MethodGet, "/api/uploads?limit=1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec, body = ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 1)
}

func TestAuth_Validation(t *testing.T) {
	ts := newTestServer()

	rec, body := ts.do(jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"","email":"not-an-email","password":"x"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := body["details"].(map[string]interface{})
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")

	// bcrypt limits bytes, not characters
	rec, body = ts.do(jsonRequest(http.MethodPost, "/api/auth/register",
		`{"name":"Ada","email":"ada@example.com","password":"`+strings.Repeat("é", 40)+`"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["details"], "password")
	assert.Empty(t, ts.auth.users)

	rec, _ = ts.do(jsonRequest(http.MethodPost, "/api/auth/login", `{not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	ts := newTestServer()

	rec, _ := ts.do(httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec, _ = ts.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer()

	rec, body := ts.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}
