package server

import (
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"climateforum/internal/models"

	"github.com/gavv/httpexpect/v2"
	"github.com/stretchr/testify/require"
)

// newExpect returns a cookie-keeping client bound to the app without a listener.
// Redirects are not followed so each hop can be asserted.
func newExpect(t *testing.T) *httpexpect.Expect {
	t.Helper()
	_, app, _ := setupTestServer(t)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return httpexpect.WithConfig(httpexpect.Config{
		BaseURL:  "http://forum.test",
		Reporter: httpexpect.NewAssertReporter(t),
		Printers: []httpexpect.Printer{
			httpexpect.NewDebugPrinter(t, false),
		},
		Client: &http.Client{
			Transport: httpexpect.NewFastBinder(app.Handler()),
			Jar:       jar,
			Timeout:   30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	})
}

func TestAliceScenario(t *testing.T) {
	e := newExpect(t)

	e.POST("/signup").
		WithFormField("username", "alice").
		WithFormField("email", "a@x.io").
		WithFormField("password", "secret1").
		WithFormField("confirm_password", "secret1").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("/login")

	e.GET("/login").Expect().
		Status(http.StatusOK).
		Body().Contains("Account created successfully! Please log in.")

	e.POST("/login").
		WithFormField("username", "alice").
		WithFormField("password", "wrong").
		Expect().
		Status(http.StatusUnauthorized).
		Body().Contains("Invalid username or password.")

	e.POST("/login").
		WithFormField("username", "alice").
		WithFormField("password", "secret1").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("/forum")

	e.POST("/forum/create").
		WithFormField("category", "Heatwaves").
		WithFormField("title", "Hot").
		WithFormField("content", "Too hot").
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("/forum")

	posts := e.GET("/api/posts").WithQuery("category", "Heatwaves").
		Expect().
		Status(http.StatusOK).
		JSON().Object().Value("posts").Array()
	posts.Length().IsEqual(1)
	first := posts.Value(0).Object()
	first.Value("title").IsEqual("Hot")
	first.Value("author_username").IsEqual("alice")
	first.Value("reaction_count").IsEqual(0)
	first.Value("comment_count").IsEqual(0)
	postID := int(first.Value("id").Number().Raw())

	e.GET("/forum").WithQuery("category", "Heatwaves").
		Expect().
		Status(http.StatusOK).
		Body().Contains("Post created successfully!").Contains("Hot")

	react := func() *httpexpect.Object {
		return e.POST("/forum/post/{id}/react", postID).
			WithHeader("Accept", "application/json").
			WithHeader("X-Requested-With", "XMLHttpRequest").
			Expect().
			Status(http.StatusOK).
			JSON().Object()
	}
	react().IsEqual(map[string]any{"success": true, "action": models.ReactionAdded, "count": 1})
	react().IsEqual(map[string]any{"success": true, "action": models.ReactionRemoved, "count": 0})

	e.POST("/forum/post/{id}/comment", postID).
		WithFormField("content", "Stay hydrated").
		Expect().
		Status(http.StatusFound)

	e.GET("/forum/post/{id}", postID).
		Expect().
		Status(http.StatusOK).
		Body().Contains("Comment added successfully!").Contains("Stay hydrated")

	e.GET("/logout").Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("/")

	e.GET("/").Expect().
		Status(http.StatusOK).
		Body().Contains("You have been logged out.").Contains("Hot")
}
