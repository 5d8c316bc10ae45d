package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, err := Sign("u1", "Ana", "ana@example.com")
	require.NoError(t, err)

	claims, err := Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "Ana", claims.Name)
	require.Equal(t, "ana@example.com", claims.Email)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	tok, err := Sign("u1", "Ana", "ana@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = Verify(tok)
	require.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "-1s")

	tok, err := Sign("u1", "Ana", "ana@example.com")
	require.NoError(t, err)

	_, err = Verify(tok)
	require.Error(t, err)
}

func TestVerify_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Verify("not.a.token")
	require.Error(t, err)
}

func TestJWTAuth_Middleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_EXPIRES_IN", "1h")

	var got Claims
	handler := JWTAuth()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := Sign("u1", "Ana", "ana@example.com")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "u1", got.Subject)
}

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)
	require.NoError(t, CheckPassword(hash, "s3cret"))
	require.Error(t, CheckPassword(hash, "wrong"))
}
