package handlers

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
	"time"

	"fabtech_dashboard/internal/migrations"
	"fabtech_dashboard/internal/redis"
	"fabtech_dashboard/internal/repository"
	"fabtech_dashboard/internal/services"
	"fabtech_dashboard/pkg/backend"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	backend *httptest.Server
}

// backendStub answers the storage and auth calls the handlers make.
func backendStub() http.HandlerFunc {
	uploaded := map[string][]string{}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/storage/v1/object/list/files":
			var body struct {
				Prefix string `json:"prefix"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			out := []map[string]any{}
			for _, name := range uploaded[body.Prefix] {
				out = append(out, map[string]any{"id": name, "name": name})
			}
			json.NewEncoder(w).Encode(out)
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/files/"):
			key := strings.TrimPrefix(r.URL.Path, "/storage/v1/object/files/")
			i := strings.LastIndex(key, "/")
			uploaded[key[:i]] = append(uploaded[key[:i]], key[i+1:])
			w.Write([]byte(`{}`))
		case r.URL.Path == "/auth/v1/user":
			if r.Header.Get("Authorization") == "Bearer expired" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"msg":"JWT expired"}`))
				return
			}
			w.Write([]byte(`{"id":"user-1","email":"ops@fabtech.example"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
		}
	}
}

func setupTestServer(t *testing.T) *testServer {
	require.NoError(t, RegisterValidators())

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migrations.RunMigrations(db, zap.NewNop()))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	redisClient := redis.New(rdb, zap.NewNop())

	stub := httptest.NewServer(backendStub())
	t.Cleanup(stub.Close)
	backendClient := backend.NewClient(stub.URL, "anon", "files", 5*time.Second, zap.NewNop())

	log := zap.NewNop()
	customerRepo := repository.NewCustomerRepository(db, redisClient, log)
	measurementRepo := repository.NewMeasurementRepository(db, redisClient, log)

	router := gin.New()
	router.Use(RequestLogger(log))
	RegisterRoutes(router,
		AuthMiddleware(testSecret),
		NewAuthHandler(services.NewAuthService(backendClient, "", log), log),
		NewRecordHandler(services.NewCustomerService(customerRepo, log), log),
		NewMeasurementHandler(
			services.NewMeasurementService(measurementRepo, redisClient, time.Hour, log),
			services.NewExportService(measurementRepo, log),
			log,
		),
		NewFileHandler(services.NewFileService(backendClient, log), log),
	)

	return &testServer{router: router, db: db, backend: stub}
}

func signToken(t *testing.T, subject string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@fabtech.example",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(t *testing.T, path, token, filename, content string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	part.Write([]byte(content))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// streamRecorder lets gin's Stream run under httptest.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func (s *testServer) stream(t *testing.T, path, token string, d time.Duration) string {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	s.router.ServeHTTP(w, req)
	return w.Body.String()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func validBasicDetails() map[string]any {
	return map[string]any{
		"party_name":     "Acme",
		"mobile_number":  "9800000000",
		"address1":       "Plot 4",
		"address2":       "Ring Road",
		"status_of_site": "ready",
		"category":       "architecture",
		"gmap":           "https://maps.example/abc",
	}
}

func validMeasurement() map[string]any {
	return map[string]any{
		"design_selection": "regular-design",
		"design_ref":       "3 shutters 5x7",
		"design_rate":      999,
		"quantity":         1,
		"mosquito_window":  "both-side",
		"colour":           "white",
	}
}
