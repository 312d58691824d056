package httpkit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coursehub_backend/platform/apperr"
	"coursehub_backend/platform/token"
)

type fakeResolver struct {
	users map[uuid.UUID]ResolvedUser
	err   error
}

func (f *fakeResolver) ResolveUser(_ context.Context, id uuid.UUID) (ResolvedUser, error) {
	if f.err != nil {
		return ResolvedUser{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return ResolvedUser{}, apperr.NotFound("account not found")
	}
	return user, nil
}

func newAuthTestRouter(codec *token.Codec, resolver UserResolver, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(codec, resolver, "token")}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID().String(), "role": id.Role()})
	})
	r.GET("/secure", handlers...)
	return r
}

func TestAuthRequired_MissingToken(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	r := newAuthTestRouter(codec, &fakeResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_InvalidToken(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	r := newAuthTestRouter(codec, &fakeResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_ExpiredToken(t *testing.T) {
	expired := token.NewCodec("secret", -time.Minute)
	verifier := token.NewCodec("secret", time.Hour)
	raw, err := expired.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(verifier, &fakeResolver{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRequired_ValidCookie(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	userID := uuid.New()
	resolver := &fakeResolver{users: map[uuid.UUID]ResolvedUser{
		userID: {ID: userID, Role: "student"},
	}}

	raw, err := codec.Sign(userID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(codec, resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: raw})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthRequired_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	headerUser := uuid.New()
	cookieUser := uuid.New()
	resolver := &fakeResolver{users: map[uuid.UUID]ResolvedUser{
		headerUser: {ID: headerUser, Role: "instructor"},
		cookieUser: {ID: cookieUser, Role: "student"},
	}}

	headerToken, err := codec.Sign(headerUser)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	cookieToken, err := codec.Sign(cookieUser)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(codec, resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: "token", Value: cookieToken})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if want := headerUser.String(); !strings.Contains(body, want) {
		t.Fatalf("expected identity from header token (%s), got body %s", want, body)
	}
}

func TestAuthRequired_UnknownUser(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	raw, err := codec.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(codec, &fakeResolver{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted account, got %d", w.Code)
	}
}

func TestAuthRequired_ResolverFailure(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	raw, err := codec.Sign(uuid.New())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(codec, &fakeResolver{err: context.DeadlineExceeded})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for resolver failure, got %d", w.Code)
	}
}

func TestOptionalAuth_AnonymousOnBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := token.NewCodec("secret", time.Hour)

	r := gin.New()
	r.GET("/open", OptionalAuth(codec, &fakeResolver{}, "token"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": GetIdentity(c).IsAuthenticated()})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "false") {
		t.Fatalf("expected anonymous identity, got %s", w.Body.String())
	}
}

func TestRequireRoles_WrongRole(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	userID := uuid.New()
	resolver := &fakeResolver{users: map[uuid.UUID]ResolvedUser{
		userID: {ID: userID, Role: "student"},
	}}

	raw, err := codec.Sign(userID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(codec, resolver, RequireRoles("admin"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", w.Code)
	}
}

func TestRequireRoles_MatchingRole(t *testing.T) {
	codec := token.NewCodec("secret", time.Hour)
	userID := uuid.New()
	resolver := &fakeResolver{users: map[uuid.UUID]ResolvedUser{
		userID: {ID: userID, Role: "admin"},
	}}

	raw, err := codec.Sign(userID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	r := newAuthTestRouter(codec, resolver, RequireRoles("instructor", "admin"))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for matching role, got %d", w.Code)
	}
}

func TestRequireRoles_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireRoles("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}
