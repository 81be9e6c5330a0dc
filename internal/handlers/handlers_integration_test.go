package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"campusconnect/internal/auth"
	"campusconnect/internal/database"
	"campusconnect/internal/handlers"
	"campusconnect/internal/middleware"
	"campusconnect/internal/repositories"
	"campusconnect/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

type stubCompleter struct {
	prompt string
	answer string
	err    error
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

type testEnv struct {
	app    *fiber.App
	tokens *auth.TokenCodec
	llm    *stubCompleter
}

// setupApp sets up a Fiber app backed by an isolated in-memory SQLite database.
func setupApp(t *testing.T, cookies handlers.CookiePolicy) *testEnv {
	t.Helper()

	db, err := database.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	userRepo := repositories.NewGORMUserRepository(db)
	questionRepo := repositories.NewGORMQuestionRepository(db)

	tokens := auth.NewTokenCodec(testJWTSecret)
	llm := &stubCompleter{answer: "Step 1: Build - Ship a project."}

	authService := services.NewAuthService(userRepo, auth.NewPasswordHasher(bcrypt.MinCost), tokens, nil)
	mentorService := services.NewMentorService(userRepo, nil, time.Minute)
	questionService := services.NewQuestionService(questionRepo)
	adviceService := services.NewAdviceService(llm)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	session := middleware.SessionRequired(tokens)

	handlers.NewAuthHandler(authService, cookies, nil).RegisterRoutes(app, session)
	handlers.NewMentorHandler(mentorService).RegisterRoutes(app)
	handlers.NewQuestionHandler(questionService).RegisterRoutes(app, session)
	handlers.NewAdviceHandler(adviceService).RegisterRoutes(app)

	return &testEnv{app: app, tokens: tokens, llm: llm}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := e.app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func tokenCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.TokenCookie {
			return c
		}
	}
	return nil
}

func signupBody() map[string]interface{} {
	return map[string]interface{}{
		"name":       "A B",
		"email":      "a@x.com",
		"password":   "secret1",
		"role":       "student",
		"department": "cse",
	}
}

func TestAuthFlow(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	// Signup
	resp, body := env.do(t, http.MethodPost, "/signup", signupBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Signup successful.", body["message"])
	user := body["user"].(map[string]interface{})
	userID := user["id"].(string)
	assert.NotEmpty(t, userID)
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotNil(t, tokenCookie(resp))

	// Wrong password
	resp, body = env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid credentials.", body["message"])
	assert.Nil(t, tokenCookie(resp))

	// Login
	resp, body = env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", body["message"])
	summary := body["user"].(map[string]interface{})
	assert.Len(t, summary, 4)
	assert.Equal(t, userID, summary["id"])

	cookie := tokenCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
	id, err := env.tokens.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, id)

	// Verify
	resp, body = env.do(t, http.MethodGet, "/verify", nil, &http.Cookie{Name: "token", Value: cookie.Value})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	profile := body["user"].(map[string]interface{})
	assert.Equal(t, userID, profile["id"])
	assert.Equal(t, "student", profile["role"])
	assert.Equal(t, float64(0), profile["overallRankScore"])
	assert.NotContains(t, profile, "password")

	// Logout
	resp, body = env.do(t, http.MethodPost, "/logout", nil, &http.Cookie{Name: "token", Value: cookie.Value})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logout successful", body["message"])
	cleared := tokenCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))
	assert.True(t, cleared.HttpOnly)

	// The cleared cookie no longer authenticates
	resp, body = env.do(t, http.MethodGet, "/verify", nil, &http.Cookie{Name: "token", Value: cleared.Value})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", body["message"])
}

func TestLogoutWithoutSession(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, body := env.do(t, http.MethodPost, "/logout", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, tokenCookie(resp))
}

func TestSignupRejections(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, _ := env.do(t, http.MethodPost, "/signup", signupBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate email
	resp, body := env.do(t, http.MethodPost, "/signup", signupBody(), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists with this email", body["message"])
	assert.Nil(t, tokenCookie(resp))

	// Missing department
	missing := signupBody()
	missing["email"] = "b@x.com"
	delete(missing, "department")
	resp, body = env.do(t, http.MethodPost, "/signup", missing, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Missing required fields: name, email, password, role, or department", body["message"])
	assert.Contains(t, body["errors"], "department")

	// Malformed JSON
	resp, body = env.do(t, http.MethodPost, "/signup", `{"name":`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", body["message"])

	// Unknown fields are tolerated
	extra := signupBody()
	extra["email"] = "c@x.com"
	extra["currComapany"] = "Acme"
	resp, _ = env.do(t, http.MethodPost, "/signup", extra, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSignupWithOptionalProfile(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	in := signupBody()
	in["role"] = "mentor"
	in["skills"] = []string{"go", "sql"}
	in["currCompany"] = "Acme"
	in["socialLinks"] = map[string]string{"github": "https://github.com/ab"}
	resp, body := env.do(t, http.MethodPost, "/signup", in, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	user := body["user"].(map[string]interface{})
	assert.Equal(t, []interface{}{"go", "sql"}, user["skills"])
	assert.Equal(t, "Acme", user["currCompany"])
	assert.Nil(t, user["codingProfiles"])
	links := user["socialLinks"].(map[string]interface{})
	assert.Equal(t, "https://github.com/ab", links["github"])

	resp, body = env.do(t, http.MethodGet, "/verify", nil, tokenCookie(resp))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["user"].(map[string]interface{})
	assert.Equal(t, links, profile["socialLinks"])
}

func TestLoginRejections(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, body := env.do(t, http.MethodPost, "/login", map[string]string{"email": "nobody@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found.", body["message"])

	resp, body = env.do(t, http.MethodPost, "/login", map[string]string{"email": "a@x.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email and password are required", body["message"])
}

func TestVerifyRejections(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, body := env.do(t, http.MethodGet, "/verify", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated", body["message"])

	resp, body = env.do(t, http.MethodGet, "/verify", nil, &http.Cookie{Name: "token", Value: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])

	// Correctly signed but expired
	now := time.Now()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: "user-1",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Add(-48 * time.Hour).Unix(),
			ExpiresAt: now.Add(-24 * time.Hour).Unix(),
		},
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	resp, body = env.do(t, http.MethodGet, "/verify", nil, &http.Cookie{Name: "token", Value: expired})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["message"])

	// Valid token for a user that does not exist
	ghost, err := env.tokens.Issue("ghost")
	require.NoError(t, err)
	resp, body = env.do(t, http.MethodGet, "/verify", nil, &http.Cookie{Name: "token", Value: ghost})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

func TestCookieAttributes(t *testing.T) {
	t.Run("development", func(t *testing.T) {
		env := setupApp(t, handlers.CookiePolicy{})
		resp, _ := env.do(t, http.MethodPost, "/signup", signupBody(), nil)
		cookie := tokenCookie(resp)
		require.NotNil(t, cookie)
		assert.False(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	})

	t.Run("production", func(t *testing.T) {
		env := setupApp(t, handlers.CookiePolicy{CrossSite: true})
		resp, _ := env.do(t, http.MethodPost, "/signup", signupBody(), nil)
		cookie := tokenCookie(resp)
		require.NotNil(t, cookie)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)

		resp, _ = env.do(t, http.MethodPost, "/logout", nil, nil)
		cleared := tokenCookie(resp)
		require.NotNil(t, cleared)
		assert.True(t, cleared.Secure)
		assert.Equal(t, http.SameSiteNoneMode, cleared.SameSite)
	})
}

func TestMentorDirectory(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, _ := env.do(t, http.MethodPost, "/signup", signupBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mentor := signupBody()
	mentor["email"] = "m@x.com"
	mentor["name"] = "M Entor"
	mentor["role"] = "mentor"
	resp, _ = env.do(t, http.MethodPost, "/signup", mentor, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodGet, "/mentors", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mentors := body["mentors"].([]interface{})
	require.Len(t, mentors, 1)
	card := mentors[0].(map[string]interface{})
	assert.Equal(t, "M Entor", card["name"])
	assert.NotContains(t, card, "email")
}

func TestQuestionBoard(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, _ := env.do(t, http.MethodPost, "/askquestion", map[string]string{"question": "How?"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/signup", signupBody(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := tokenCookie(resp)

	resp, body := env.do(t, http.MethodPost, "/askquestion", map[string]string{"question": "   "}, session)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Question is required", body["message"])

	resp, body = env.do(t, http.MethodPost, "/askquestion", map[string]string{
		"question":    "How do I prepare for interviews?",
		"description": "Final year, cse",
	}, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Question posted successfully", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/question", nil)
	listResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var questions []map[string]interface{}
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&questions))
	require.Len(t, questions, 1)
	assert.Equal(t, "How do I prepare for interviews?", questions[0]["question"])
	assert.Equal(t, "Final year, cse", questions[0]["description"])
	author := questions[0]["user"].(map[string]interface{})
	assert.Equal(t, "A B", author["name"])
	assert.NotContains(t, author, "email")
	assert.Equal(t, []interface{}{}, questions[0]["replies"])
}

func TestCareerAdvice(t *testing.T) {
	env := setupApp(t, handlers.CookiePolicy{})

	resp, body := env.do(t, http.MethodPost, "/career-advice", map[string]string{"question": "Should I learn Go?"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Step 1: Build - Ship a project.", body["advice"])
	assert.Contains(t, env.llm.prompt, `"Should I learn Go?"`)

	resp, body = env.do(t, http.MethodPost, "/career-advice", map[string]string{"question": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide a question", body["message"])

	env.llm.err = errors.New("upstream timeout")
	resp, body = env.do(t, http.MethodPost, "/career-advice", map[string]string{"question": "Now?"}, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to get advice", body["message"])
}
