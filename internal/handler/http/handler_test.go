package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/MKhiriev/agricheck/internal/config"
	"github.com/MKhiriev/agricheck/internal/logger"
	"github.com/MKhiriev/agricheck/internal/mock"
	"github.com/MKhiriev/agricheck/internal/service"
	"github.com/MKhiriev/agricheck/internal/validators"
	"github.com/MKhiriev/agricheck/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testUserID      = "0190aa00-0000-7000-8000-0000000000aa"
	testAccessToken = "access-token"
)

type serviceMocks struct {
	auth    *mock.MockAuthService
	reset   *mock.MockPasswordResetService
	users   *mock.MockUserService
	scans   *mock.MockScanService
	appInfo *mock.MockAppInfoService
}

func newServiceMocks(t *testing.T) (*service.Services, serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		auth:    mock.NewMockAuthService(ctrl),
		reset:   mock.NewMockPasswordResetService(ctrl),
		users:   mock.NewMockUserService(ctrl),
		scans:   mock.NewMockScanService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}
	return &service.Services{
		AuthService:          m.auth,
		PasswordResetService: m.reset,
		UserService:          m.users,
		ScanService:          m.scans,
		AppInfoService:       m.appInfo,
	}, m
}

func testConfig() config.StructuredConfig {
	return config.StructuredConfig{
		App:    config.App{CORSOrigins: []string{"*"}},
		Server: config.Server{MaxUploadSize: 1 << 20},
	}
}

func newTestRouter(t *testing.T, services *service.Services, cfg config.StructuredConfig) *chi.Mux {
	t.Helper()
	return NewHandler(services, validators.NewRequestValidator(), cfg, logger.Nop()).Init()
}

func newTestServer(t *testing.T) (*chi.Mux, serviceMocks) {
	t.Helper()
	services, m := newServiceMocks(t)
	return newTestRouter(t, services, testConfig()), m
}

// expectAuthenticated lets testAccessToken through the auth middleware.
func (m serviceMocks) expectAuthenticated() {
	m.auth.EXPECT().Authenticate(gomock.Any(), testAccessToken).
		Return(models.User{UserID: testUserID, Email: "juan@example.com"}, nil)
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authorized(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testAccessToken)
	return req
}

// multipartUpload builds a scan upload with an explicit part content type.
func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/scans/scan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var body T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
