package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/blogman/internal/model"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	findByNameFn  func(ctx context.Context, name string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	if m.findByNameFn != nil {
		return m.findByNameFn(ctx, name)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

// --- テスト ---

func TestService_Register_Success(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(repo, NewTokenManager("test-secret"), nil)

	user, err := svc.Register(context.Background(), "alice@example.com", "alice", "pw123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if created.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", created.Email, "alice@example.com")
	}

	// 平文パスワードは保存されないこと
	if created.PasswordHash == "pw123" {
		t.Error("password must be stored as a hash, not plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("pw123")); err != nil {
		t.Errorf("stored hash should match the original password: %v", err)
	}
}

func TestService_Register_DuplicateEmail_ReturnsConflict(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "existing", Email: email}, nil
		},
	}
	svc := NewService(repo, NewTokenManager("test-secret"), nil)

	_, err := svc.Register(context.Background(), "alice@example.com", "alice", "pw123")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateEmail {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateEmail)
	}
}

func TestService_Register_DuplicateName_ReturnsConflict(t *testing.T) {
	repo := &mockUserRepo{
		findByNameFn: func(ctx context.Context, name string) (*model.User, error) {
			return &model.User{ID: "existing", Name: name}, nil
		},
	}
	svc := NewService(repo, NewTokenManager("test-secret"), nil)

	_, err := svc.Register(context.Background(), "alice@example.com", "alice", "pw123")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeDuplicateName {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeDuplicateName)
	}
}

func TestService_Login_Success_IssuesVerifiableToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw123"), bcryptCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{
				ID:           "user-id-123",
				Email:        email,
				Name:         "alice",
				PasswordHash: string(hash),
			}, nil
		},
	}
	tokens := NewTokenManager("test-secret")
	svc := NewService(repo, tokens, nil)

	token, err := svc.Login(context.Background(), "alice@example.com", "pw123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// 発行直後のトークンを検証すると登録ユーザーのIDが復元されること
	identity := tokens.Verify(token)
	if identity == nil {
		t.Fatal("expected identity from issued token")
	}
	if identity.UserID != "user-id-123" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "user-id-123")
	}
}

func TestService_Login_UnknownUserAndWrongPassword_SameError(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcryptCost)

	unknownRepo := &mockUserRepo{}
	wrongPwRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", PasswordHash: string(hash)}, nil
		},
	}

	tokens := NewTokenManager("test-secret")

	_, errUnknown := NewService(unknownRepo, tokens, nil).Login(context.Background(), "nobody@example.com", "pw")
	_, errWrongPw := NewService(wrongPwRepo, tokens, nil).Login(context.Background(), "alice@example.com", "wrong")

	// ユーザー未登録とパスワード不一致は外部から区別できないこと
	var apiErr1, apiErr2 *model.APIError
	if !errors.As(errUnknown, &apiErr1) || !errors.As(errWrongPw, &apiErr2) {
		t.Fatalf("expected APIErrors, got %v / %v", errUnknown, errWrongPw)
	}
	if apiErr1.Code != apiErr2.Code {
		t.Errorf("error codes differ: %q vs %q (user enumeration leak)", apiErr1.Code, apiErr2.Code)
	}
	if apiErr1.Message != apiErr2.Message {
		t.Errorf("error messages differ: %q vs %q (user enumeration leak)", apiErr1.Message, apiErr2.Message)
	}
	if apiErr1.Code != model.ErrCodeInvalidCredentials {
		t.Errorf("Code = %q, want %q", apiErr1.Code, model.ErrCodeInvalidCredentials)
	}
}

type recordingMetrics struct {
	signups        int
	loginSuccesses int
	loginFailures  int
}

func (m *recordingMetrics) RecordSignup()       { m.signups++ }
func (m *recordingMetrics) RecordLoginSuccess() { m.loginSuccesses++ }
func (m *recordingMetrics) RecordLoginFailure() { m.loginFailures++ }

func TestService_Login_RecordsMetrics(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw123"), bcryptCost)
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Name: "alice", PasswordHash: string(hash)}, nil
		},
	}
	m := &recordingMetrics{}
	svc := NewService(repo, NewTokenManager("test-secret"), m)

	if _, err := svc.Login(context.Background(), "alice@example.com", "pw123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}

	if m.loginSuccesses != 1 {
		t.Errorf("loginSuccesses = %d, want 1", m.loginSuccesses)
	}
	if m.loginFailures != 1 {
		t.Errorf("loginFailures = %d, want 1", m.loginFailures)
	}
}

func TestService_GetUser_ReturnsUser(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "alice@example.com", Name: "alice"}, nil
		},
	}
	svc := NewService(repo, NewTokenManager("test-secret"), nil)

	user, err := svc.GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", user.Email, "alice@example.com")
	}
}

func TestService_GetUser_Deleted_NotFound(t *testing.T) {
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, NewTokenManager("test-secret"), nil)

	_, err := svc.GetUser(context.Background(), "ghost")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %v", err)
	}
}
