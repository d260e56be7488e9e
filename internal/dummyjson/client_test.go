package dummyjson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Username != "emilys" || req.Password != "emilyspass" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"id":1,"username":"emilys","email":"emily.johnson@x.dummyjson.com",
			"firstName":"Emily","lastName":"Johnson","accessToken":"tok"}`))
	})

	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"users":[{"id":1,"username":"emilys","firstName":"Emily"},
			{"id":2,"username":"michaelw","firstName":"Michael"}],"total":2}`))
	})

	mux.HandleFunc("GET /recipes", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"recipes":[
			{"id":1,"name":"Classic Margherita Pizza","cuisine":"Italian","ingredients":["Basil"],"tags":["Pizza"]},
			{"id":2,"name":"Vegetarian Stir-Fry","cuisine":"Asian","ingredients":["Tofu"],"tags":["Vegetarian"]}
		],"total":2,"skip":0,"limit":2}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithBaseURL(srv.URL + "/")}, opts...)
	return NewClient(logger.Nop(), opts...)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, newTestServer(t))
	ctx := context.Background()

	user, err := c.Login(ctx, "emilys", "emilyspass")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "Emily", user.FirstName)
	assert.Equal(t, "tok", user.AccessToken)

	_, err = c.Login(ctx, "emilys", "wrong")
	var aerr *domain.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.Status)
	assert.Equal(t, "Invalid credentials", aerr.Error())
}

func TestLoginRejectionWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Login(context.Background(), "a", "b")
	var aerr *domain.AuthError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, domain.MsgLoginFailed, aerr.Error())
}

func TestFindUser(t *testing.T) {
	c := newTestClient(t, newTestServer(t))
	ctx := context.Background()

	user, err := c.FindUser(ctx, "EmilyS")
	require.NoError(t, err)
	assert.Equal(t, "emilys", user.Username)

	_, err = c.FindUser(ctx, "nobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRecipes(t *testing.T) {
	c := newTestClient(t, newTestServer(t))

	recipes, err := c.Recipes(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "Classic Margherita Pizza", recipes[0].Name)
	assert.Equal(t, []string{"Vegetarian"}, recipes[1].Tags)
}

func TestRecipesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Recipes(context.Background())
	var nerr *domain.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Contains(t, err.Error(), "boom")
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(logger.Nop(), WithBaseURL(url), WithHTTPTimeout(time.Second))
	_, err := c.Recipes(context.Background())

	var nerr *domain.NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, domain.MsgConnectionFailed, domain.UserMessage(err, domain.MsgConnectionFailed))
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, newTestServer(t), WithRateLimit(1, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Recipes(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAuthenticatorModes(t *testing.T) {
	c := newTestClient(t, newTestServer(t))
	ctx := context.Background()

	login := NewAuthenticator(c, AuthModeLogin)
	_, err := login.Authenticate(ctx, "emilys", "nope")
	require.Error(t, err)

	lookup := NewAuthenticator(c, AuthModeLookup)
	user, err := lookup.Authenticate(ctx, "michaelw", "anything")
	require.NoError(t, err)
	assert.Equal(t, 2, user.ID)
}
