package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/blogman/internal/model"
	"github.com/hitoshi/blogman/internal/repository"
)

// bcryptCost はパスワードハッシュの計算コスト。固定で設定不可。
const bcryptCost = 10

// dummyHash はユーザー未登録時のダミー比較に使用するbcryptハッシュ。
// ログイン失敗の応答時間からユーザーの有無を推測されないようにする。
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Metrics は認証サービスが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type Metrics interface {
	RecordSignup()
	RecordLoginSuccess()
	RecordLoginFailure()
}

// Service は登録・ログインのビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	tokens   *TokenManager
	metrics  Metrics
}

// NewService はServiceを生成する。
// metricsはnilを許容し、その場合は記録をスキップする。
func NewService(userRepo repository.UserRepository, tokens *TokenManager, metrics Metrics) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		metrics:  metrics,
	}
}

// Register は新規ユーザーを登録する。
// メールアドレス、表示名の順に重複チェックを行い、それぞれ別個の409エラーを返す。
// パスワードはbcrypt（コスト10）でハッシュ化して保存し、平文は保存もログ出力もしない。
func (s *Service) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateEmailError()
	}

	existing, err = s.userRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name uniqueness: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateNameError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSignup()
	}
	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("name", user.Name),
	)

	return user, nil
}

// Login は資格情報を検証し、セッショントークンを発行する。
// ユーザー未登録とパスワード不一致は外部から区別できない同一のエラーを返す
// （ユーザー列挙対策）。セッション状態はサーバー側に一切持たない。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if user == nil {
		// 未登録ユーザーでも応答時間を揃えるためダミーハッシュと比較する
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if s.metrics != nil {
			s.metrics.RecordLoginFailure()
		}
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordLoginSuccess()
	}
	slog.Info("user logged in", slog.String("user_id", user.ID))

	return token, nil
}

// GetUser は指定IDのユーザー情報を取得する。
// トークンは有効だがユーザーが削除済みの場合はUSER_NOT_FOUNDを返す。
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}
