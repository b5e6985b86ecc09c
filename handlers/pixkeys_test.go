package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pix-rail/pix-key-api/pixkeys"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "test.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("Error while opening test database: %s", err)
	}

	if err := db.AutoMigrate(&pixkeys.PixKey{}); err != nil {
		t.Fatalf("Error while migrating test database: %s", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	service := pixkeys.NewService(pixkeys.NewGormStore(db))
	h := NewPixKeys(service)

	r := mux.NewRouter()
	r.Handle("/keys/active", h.Active()).Methods(http.MethodGet)
	r.Handle("/keys/inactive", h.Inactive()).Methods(http.MethodGet)
	r.Handle("/keys/account", h.ByAccount()).Methods(http.MethodGet)
	r.Handle("/keys/period", h.ByPeriod()).Methods(http.MethodGet)
	r.Handle("/keys/type/{keyType}", h.ByType()).Methods(http.MethodGet)
	r.Handle("/keys/holder/{name}", h.ByHolderName()).Methods(http.MethodGet)
	r.Handle("/keys", h.List()).Methods(http.MethodGet)
	r.Handle("/keys", h.Create()).Methods(http.MethodPost)
	r.Handle("/keys/{id}", h.Details()).Methods(http.MethodGet)
	r.Handle("/keys/{id}", h.Amend()).Methods(http.MethodPut)
	r.Handle("/keys/{id}", h.Deactivate()).Methods(http.MethodDelete)

	return r
}

func TestPixKeyHandlers(t *testing.T) {
	router := setupTestRouter(t)

	var tempKey pixkeys.PixKey

	// NOTE: The order of the test "steps" matters
	steps := []struct {
		name        string
		method      string
		url         string
		body        string
		contentType string
		expected    string
		status      int
	}{
		{
			name:     "HTTP GET keys.List db empty",
			method:   http.MethodGet,
			url:      "/keys",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP POST keys.Create",
			method:   http.MethodPost,
			url:      "/keys",
			body:     `{"keyType":"celular","keyValue":"+5511987654321","personType":"fisica","accountType":"corrente","branchNumber":1234,"accountNumber":56789012,"holderFirstName":"Ana"}`,
			expected: `\{"id":".+","keyType":"celular","keyValue":"\+5511987654321",.*"createdAt":".+"\}\n`,
			status:   http.StatusCreated,
		},
		{
			name:     "HTTP POST keys.Create duplicate value",
			method:   http.MethodPost,
			url:      "/keys",
			body:     `{"keyType":"celular","keyValue":"+5511987654321","personType":"fisica","accountType":"poupanca","branchNumber":99,"accountNumber":1,"holderFirstName":"Bruna"}`,
			expected: `a celular key with this value already exists\n`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "HTTP POST keys.Create invalid body",
			method:   http.MethodPost,
			url:      "/keys",
			body:     `{"branchNumber":"not-a-number"}`,
			expected: `invalid body\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:        "HTTP POST keys.Create unsupported content type",
			method:      http.MethodPost,
			url:         "/keys",
			body:        `{"keyType":"celular"}`,
			contentType: "text/plain",
			expected:    `Unsupported content type "text/plain".*\n`,
			status:      http.StatusUnsupportedMediaType,
		},
		{
			name:     "HTTP POST keys.Create invalid value",
			method:   http.MethodPost,
			url:      "/keys",
			body:     `{"keyType":"cpf","keyValue":"123.456.789-00","personType":"fisica","accountType":"corrente","branchNumber":1,"accountNumber":1,"holderFirstName":"Ana"}`,
			expected: `value "123\.456\.789-00" is not a valid cpf key\n`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "HTTP GET keys.Details invalid id",
			method:   http.MethodGet,
			url:      "/keys/not-a-uuid",
			expected: `invalid key id\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:     "HTTP GET keys.Details unknown id",
			method:   http.MethodGet,
			url:      "/keys/babc7ffe-804b-45b8-9a39-78e3d5b097b1",
			expected: `PIX key not found\n`,
			status:   http.StatusNotFound,
		},
		{
			name:     "HTTP GET keys.Details known id",
			method:   http.MethodGet,
			url:      "/keys/<id>",
			expected: `\{"id":".+","keyType":"celular",.*\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP PUT keys.Amend",
			method:   http.MethodPut,
			url:      "/keys/<id>",
			body:     `{"holderLastName":"Souza"}`,
			expected: `\{.*"holderLastName":"Souza",.*\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP PUT keys.Amend no change",
			method:   http.MethodPut,
			url:      "/keys/<id>",
			body:     `{"holderLastName":"Souza"}`,
			expected: `patch does not alter any field\n`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "HTTP GET keys.ByType active key",
			method:   http.MethodGet,
			url:      "/keys/type/celular",
			expected: `\[\{.*"keyValue":"\+5511987654321",.*\}\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.ByHolderName active key",
			method:   http.MethodGet,
			url:      "/keys/holder/an",
			expected: `\[\{.*"holderFirstName":"Ana",.*\}\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.ByPeriod active key",
			method:   http.MethodGet,
			url:      "/keys/period?start=2020-01-01T00:00:00Z&end=2100-01-01T00:00:00Z",
			expected: `\[\{.*"keyValue":"\+5511987654321",.*\}\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP DELETE keys.Deactivate",
			method:   http.MethodDelete,
			url:      "/keys/<id>",
			expected: `\{.*"deactivatedAt":".+"\}\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP DELETE keys.Deactivate already inactive",
			method:   http.MethodDelete,
			url:      "/keys/<id>",
			expected: `key is already deactivated\n`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "HTTP PUT keys.Amend inactive key",
			method:   http.MethodPut,
			url:      "/keys/<id>",
			body:     `{"holderLastName":"Lima"}`,
			expected: `deactivated keys cannot be amended\n`,
			status:   http.StatusUnprocessableEntity,
		},
		{
			name:     "HTTP GET keys.ByType filters inactive keys",
			method:   http.MethodGet,
			url:      "/keys/type/celular",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.ByAccount filters inactive keys",
			method:   http.MethodGet,
			url:      "/keys/account?branch=1234&account=56789012",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.Inactive",
			method:   http.MethodGet,
			url:      "/keys/inactive",
			expected: `\[\{.*"deactivatedAt":".+"\}\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.ByHolderName filters inactive keys",
			method:   http.MethodGet,
			url:      "/keys/holder/an",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.ByPeriod filters inactive keys",
			method:   http.MethodGet,
			url:      "/keys/period?start=2020-01-01T00:00:00Z&end=2100-01-01T00:00:00Z",
			expected: `\[\]\n`,
			status:   http.StatusOK,
		},
		{
			name:     "HTTP GET keys.ByAccount invalid branch",
			method:   http.MethodGet,
			url:      "/keys/account?branch=abc&account=1",
			expected: `invalid branch number\n`,
			status:   http.StatusBadRequest,
		},
		{
			name:     "HTTP GET keys.ByPeriod invalid start",
			method:   http.MethodGet,
			url:      "/keys/period?start=yesterday&end=2026-01-01T00:00:00Z",
			expected: `invalid start time, expected RFC3339\n`,
			status:   http.StatusBadRequest,
		},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			replacer := strings.NewReplacer(
				"<id>", tempKey.ID.String(),
			)

			url := replacer.Replace(step.url)

			var body *strings.Reader
			if step.body != "" {
				body = strings.NewReader(step.body)
			} else {
				body = strings.NewReader("")
			}

			req, err := http.NewRequest(step.method, url, body)
			if err != nil {
				t.Fatalf("Did not expect an error, got: %s", err)
			}

			if step.body != "" {
				contentType := step.contentType
				if contentType == "" {
					contentType = "application/json"
				}
				req.Header.Set("content-type", contentType)
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			// Check the status code is what we expect.
			if status := rr.Code; status != step.status {
				t.Errorf("handler returned wrong status code: got %v want %v",
					status, step.status)
			}

			// Store the new key if this test case created one
			if step.status == http.StatusCreated {
				json.Unmarshal(rr.Body.Bytes(), &tempKey)
			}

			// Check the response body is what we expect.
			re := regexp.MustCompile(step.expected)
			match := re.FindString(rr.Body.String())
			if match == "" || match != rr.Body.String() {
				t.Errorf("handler returned unexpected body: got %q want %v", rr.Body.String(), re)
			}
		})
	}
}
