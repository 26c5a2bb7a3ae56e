package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/blogman/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:    "user-id-123",
		Email: "alice@example.com",
		Name:  "alice",
	}
}

func TestTokenManager_IssueThenVerify_ReturnsIdentity(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	identity := m.Verify(token)
	if identity == nil {
		t.Fatal("expected identity for freshly issued token")
	}
	if identity.UserID != "user-id-123" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "user-id-123")
	}
	if identity.Name != "alice" {
		t.Errorf("Name = %q, want %q", identity.Name, "alice")
	}
}

func TestTokenManager_Verify_EmptyToken_ReturnsNil(t *testing.T) {
	m := NewTokenManager("test-secret")
	if identity := m.Verify(""); identity != nil {
		t.Errorf("expected nil identity for empty token, got %+v", identity)
	}
}

func TestTokenManager_Verify_GarbledToken_ReturnsNil(t *testing.T) {
	m := NewTokenManager("test-secret")
	if identity := m.Verify("not.a.jwt"); identity != nil {
		t.Errorf("expected nil identity for garbled token, got %+v", identity)
	}
}

func TestTokenManager_Verify_WrongSecret_ReturnsNil(t *testing.T) {
	issuer := NewTokenManager("secret-a")
	verifier := NewTokenManager("secret-b")

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if identity := verifier.Verify(token); identity != nil {
		t.Errorf("expected nil identity for token signed with different secret, got %+v", identity)
	}
}

func TestTokenManager_Verify_ExpiredToken_ReturnsNil(t *testing.T) {
	m := NewTokenManager("test-secret")

	// 有効期限が過去のトークンを直接構築する
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-id-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
		UserID:   "user-id-123",
		UserName: "alice",
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign expired token: %v", err)
	}

	// 署名は正しいが期限切れ: 改ざんされたトークンと同一の扱いでnilを返す
	if identity := m.Verify(signed); identity != nil {
		t.Errorf("expected nil identity for expired token, got %+v", identity)
	}
}

func TestTokenManager_Verify_NoneAlgorithm_ReturnsNil(t *testing.T) {
	m := NewTokenManager("test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "user-id-123",
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build none-alg token: %v", err)
	}

	if identity := m.Verify(raw); identity != nil {
		t.Errorf("expected nil identity for none-algorithm token, got %+v", identity)
	}
}

func TestTokenManager_Issue_ExpiryIs24Hours(t *testing.T) {
	m := NewTokenManager("test-secret")

	before := time.Now()
	token, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	after := time.Now()

	claims := &Claims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse issued token: %v", err)
	}

	exp := claims.ExpiresAt.Time
	if exp.Before(before.Add(TokenTTL)) || exp.After(after.Add(TokenTTL)) {
		t.Errorf("expiry = %v, want issued-at + %v", exp, TokenTTL)
	}
}
