package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"climateforum/internal/config"
	"climateforum/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-key-with-at-least-32-chars"

func setupTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewSQLiteDB(t)

	cfg := &config.Config{
		SecretKey:    testSecret,
		Port:         "0",
		Env:          "test",
		DBDriver:     "sqlite",
		UploadFolder: t.TempDir(),
		SessionTTL:   time.Hour,
	}
	s, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)
	return s, s.NewApp(), db
}

// browser drives the app through app.Test while carrying cookies between requests.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]*http.Cookie
}

type page struct {
	Status   int
	Location string
	Body     string
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values, headers map[string]string) page {
	b.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
		if headers == nil {
			headers = map[string]string{}
		}
		headers[fiber.HeaderContentType] = fiber.MIMEApplicationForm
	}
	return b.send(method, path, body, headers)
}

func (b *browser) send(method, path string, body io.Reader, headers map[string]string) page {
	b.t.Helper()

	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, ck := range b.cookies {
		req.AddCookie(ck)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	defer func() { _ = resp.Body.Close() }()

	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" || (!ck.Expires.IsZero() && ck.Expires.Before(time.Now())) {
			delete(b.cookies, ck.Name)
			continue
		}
		b.cookies[ck.Name] = ck
	}

	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return page{Status: resp.StatusCode, Location: resp.Header.Get(fiber.HeaderLocation), Body: string(raw)}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	return b.do(http.MethodGet, path, nil, nil)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form, nil)
}

// sendJSON posts a JSON body as an API client would.
func (b *browser) sendJSON(method, path, body string, headers map[string]string) page {
	b.t.Helper()
	if headers == nil {
		headers = map[string]string{}
	}
	headers[fiber.HeaderContentType] = fiber.MIMEApplicationJSON
	return b.send(method, path, strings.NewReader(body), headers)
}

func (b *browser) postJSON(path string) page {
	b.t.Helper()
	return b.do(http.MethodPost, path, nil, map[string]string{
		fiber.HeaderAccept: fiber.MIMEApplicationJSON,
		"X-Requested-With": "XMLHttpRequest",
	})
}

// signupAndLogin registers username and leaves the browser logged in.
func (b *browser) signupAndLogin(username string) {
	b.t.Helper()
	p := b.post("/signup", url.Values{
		"username":         {username},
		"email":            {username + "@example.com"},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	require.Equal(b.t, fiber.StatusFound, p.Status, p.Body)
	p = b.post("/login", url.Values{"username": {username}, "password": {"secret1"}})
	require.Equal(b.t, fiber.StatusFound, p.Status, p.Body)
	require.Equal(b.t, "/forum", p.Location)
}
