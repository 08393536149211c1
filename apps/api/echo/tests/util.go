package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/edulabs/checklist/apps/api/echo"
	"github.com/edulabs/checklist/core/objective"
	"github.com/edulabs/checklist/core/user"
	emailsvc "github.com/edulabs/checklist/services/email"
	logsvc "github.com/edulabs/checklist/services/logger"
	dummydb "github.com/edulabs/checklist/storage/database/dummy"
	testutil "github.com/edulabs/checklist/tests"
)

func setup(t *testing.T) Server {
	t.Helper()

	conf := testutil.NewConfig()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	validate, translator := testutil.NewValidator()
	objSvc := objective.NewService(dummydb.NewObjectiveRepository(db))
	usrSvc := user.NewService(conf, dummydb.NewUserRepository(db), objSvc, emailsvc.NewConsoleServiceMock(conf))

	return NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		Validate:       validate,
		Translator:     translator,
		UserSvc:        usrSvc,
		ObjectiveSvc:   objSvc,
	})
}

func newRequest(method, path string, data []byte, cookies ...*http.Cookie) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if data != nil {
		body.Write(data)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func do(srv http.Handler, method, path string, data []byte, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, data, cookies...)
	srv.ServeHTTP(rec, req)
	return rec
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

// signup registers a student over HTTP.
func signup(t *testing.T, srv http.Handler, email, pwd string, cohortID int) {
	t.Helper()
	body := marshallObj(t, map[string]interface{}{"email": email, "password": pwd, "cohort_id": cohortID})
	rec := do(srv, http.MethodPost, "/users", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

// login authenticates over HTTP and returns the issued cookies.
func login(t *testing.T, srv http.Handler, email, pwd string) []*http.Cookie {
	t.Helper()
	body := marshallObj(t, map[string]string{"email": email, "password": pwd})
	rec := do(srv, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "login issued no cookies")
	return cookies
}
