package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/user-directory/internal/api/handlers"
	"github.com/dom/user-directory/internal/api/response"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/testutil"
)

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)
	testutil.NewUserBuilder().
		WithEmail("ada@example.com").
		WithPassword("correct-horse").
		Build(t, ts.Repos.User)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "successful login",
			request:        map[string]string{"email": "ada@example.com", "password": "correct-horse"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			request:        map[string]string{"email": "ada@example.com", "password": "nope"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeInvalidCredentials,
		},
		{
			name:           "unknown email",
			request:        map[string]string{"email": "ghost@example.com", "password": "correct-horse"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeInvalidCredentials,
		},
		{
			name:           "missing password",
			request:        map[string]string{"email": "ada@example.com"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   domain.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutil.NewHTTPClient(t)
			resp := testutil.Do(t, client, http.MethodPost, ts.APIURL("/login"), tt.request)

			if tt.expectedCode != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedCode)
				assert.Nil(t, testutil.SessionCookie(resp))
				return
			}

			testutil.AssertStatusCode(t, resp, tt.expectedStatus)
			var body response.MessageBody
			testutil.AssertJSONResponse(t, resp, &body)
			assert.Equal(t, "Logged in successfully", body.Message)

			cookie := testutil.SessionCookie(resp)
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, 3600, cookie.MaxAge)
			assert.NotEmpty(t, cookie.Value)
		})
	}
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewHTTPClient(t)

	resp := testutil.Do(t, client, http.MethodPost, ts.APIURL("/login"), "not an object")

	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, domain.CodeValidation)
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)

	t.Run("without cookie", func(t *testing.T) {
		client := testutil.NewHTTPClient(t)
		resp := testutil.Do(t, client, http.MethodGet, ts.APIURL("/verify-token"), nil)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, domain.CodeUnauthenticated)
	})

	t.Run("with forged cookie", func(t *testing.T) {
		client := testutil.NewHTTPClient(t)
		req, err := http.NewRequest(http.MethodGet, ts.APIURL("/verify-token"), nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: "token", Value: "forged.jwt.value"})

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, domain.CodeInvalidToken)
	})

	t.Run("after login", func(t *testing.T) {
		client := testutil.NewHTTPClient(t)
		ts.Login(t, client, user.Email, password)

		resp := testutil.Do(t, client, http.MethodGet, ts.APIURL("/verify-token"), nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var body handlers.VerifyResponse
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, "Token is valid", body.Message)
		assert.Equal(t, user.Email, body.User.Email)
		assert.Equal(t, user.UserID, body.User.UserID)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	client := testutil.NewHTTPClient(t)
	ts.Login(t, client, user.Email, password)

	resp := testutil.Do(t, client, http.MethodPost, ts.APIURL("/logout"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	cookie := testutil.SessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)

	// The jar dropped the cookie, so the session is gone for this client.
	resp = testutil.Do(t, client, http.MethodGet, ts.APIURL("/verify-token"), nil)
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, domain.CodeUnauthenticated)
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewHTTPClient(t)

	resp := testutil.Do(t, client, http.MethodPost, ts.APIURL("/logout"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}

func TestAuthHandler_Login_WithoutOrigin(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, password := testutil.NewUserBuilder().Build(t, ts.Repos.User)
	client := testutil.NewHTTPClient(t)

	post := func(path, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, ts.APIURL(path), strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := post("/login", `{"email":"`+user.Email+`","password":"`+password+`"}`)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	require.NotNil(t, testutil.SessionCookie(resp))

	// Cookie-authenticated writes still need an allowed Origin.
	resp = post("/users", `{"name":"A","lastname":"B","email":"ab@example.com","password":"pw"}`)
	testutil.AssertErrorResponse(t, resp, http.StatusForbidden, domain.CodeValidation)

	resp = post("/logout", "")
	testutil.AssertStatusCode(t, resp, http.StatusOK)
}
