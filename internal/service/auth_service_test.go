package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/config"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/internal/dto"
	"github.com/MOUAD-BELKOURI/Systeme-Gestion-Universitaire/pkg/jwt"
)

// ── 测试辅助 ──

func setupTestAuthService(t *testing.T) (AuthService, *mockStore, *mockBlacklist, *jwt.Manager) {
	t.Helper()
	st := newMockStore()
	st.addProgram("p-1", "Informatique")
	p := st.addStudent("stu-1", "p-1", "L1", "G1")
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	p.PasswordHash = string(hash)

	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-0123456789",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	blacklist := newMockBlacklist()
	return NewAuthService(st.repository(), jwtMgr, blacklist, zap.NewNop()), st, blacklist, jwtMgr
}

// ── Login 测试 ──

func TestAuthService_Login(t *testing.T) {
	svc, _, _, jwtMgr := setupTestAuthService(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "stu-1@univ.test", Password: "password123"})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("应返回 Token 对")
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("期望 expires_in=900，实际: %d", resp.ExpiresIn)
	}
	if resp.User.ID != "stu-1" || resp.User.Role != "student" {
		t.Errorf("用户信息不符: %+v", resp.User)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析 AccessToken 应成功: %v", err)
	}
	if claims.TokenType != jwt.TokenTypeAccess || claims.UserID != "stu-1" {
		t.Errorf("AccessToken 声明不符: %+v", claims)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, _, _ := setupTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "stu-1@univ.test", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("密码错误期望 ErrInvalidCredentials，实际: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@univ.test", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("用户不存在期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Refresh 测试 ──

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, _, blacklist, _ := setupTestAuthService(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "stu-1@univ.test", Password: "password123"})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("刷新应成功: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("刷新后应签发新的 RefreshToken")
	}
	if len(blacklist.revoked) != 1 {
		t.Errorf("旧 RefreshToken 应进入黑名单，实际: %d", len(blacklist.revoked))
	}

	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("重复使用旧 RefreshToken 期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_Refresh_Invalid(t *testing.T) {
	svc, st, _, _ := setupTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}

	login, _ := svc.Login(ctx, &dto.LoginRequest{Email: "stu-1@univ.test", Password: "password123"})
	if _, err := svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("AccessToken 不能用于刷新，实际: %v", err)
	}

	delete(st.persons.persons, "stu-1")
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("用户已删除期望 ErrInvalidRefresh，实际: %v", err)
	}
}

// ── Logout / Me 测试 ──

func TestAuthService_Logout(t *testing.T) {
	svc, _, blacklist, jwtMgr := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Email: "stu-1@univ.test", Password: "password123"})
	access, err := jwtMgr.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("解析 AccessToken 应成功: %v", err)
	}

	if err := svc.Logout(ctx, access, login.RefreshToken); err != nil {
		t.Fatalf("注销应成功: %v", err)
	}
	if len(blacklist.revoked) != 2 {
		t.Errorf("期望两个 Token 进入黑名单，实际: %d", len(blacklist.revoked))
	}
	if _, ok := blacklist.revoked[access.ID]; !ok {
		t.Error("AccessToken 应进入黑名单")
	}
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("注销后 RefreshToken 应失效，实际: %v", err)
	}

	if err := svc.Logout(ctx, nil, ""); err != nil {
		t.Errorf("未携带声明时注销应直接返回: %v", err)
	}
}

func TestAuthService_Logout_IgnoresForeignRefresh(t *testing.T) {
	svc, _, blacklist, jwtMgr := setupTestAuthService(t)
	ctx := context.Background()

	login, _ := svc.Login(ctx, &dto.LoginRequest{Email: "stu-1@univ.test", Password: "password123"})
	access, _ := jwtMgr.ParseToken(login.AccessToken)
	foreign, _ := jwtMgr.GenerateRefreshToken("someone-else", "student")

	if err := svc.Logout(ctx, access, foreign); err != nil {
		t.Fatalf("注销应成功: %v", err)
	}
	if len(blacklist.revoked) != 1 {
		t.Errorf("他人的 RefreshToken 不应被吊销，实际黑名单数: %d", len(blacklist.revoked))
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _, _ := setupTestAuthService(t)
	ctx := context.Background()

	me, err := svc.Me(ctx, "stu-1")
	if err != nil {
		t.Fatalf("查询当前用户应成功: %v", err)
	}
	if me.Student == nil || me.Student.Level != "L1" {
		t.Errorf("应返回学生档案，实际: %+v", me.Student)
	}
	if _, err := svc.Me(ctx, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
