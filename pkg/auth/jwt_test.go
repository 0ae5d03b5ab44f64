package auth

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "lendpeak-test",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return svc
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "lendpeak-test"})
	if err == nil {
		t.Fatal("NewJWTService() expected error for missing secret, got nil")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)
	roles := []string{RoleAdmin, RoleOperator}

	tokenString, err := svc.GenerateToken("user-42", roles)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if tokenString == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	claims, err := svc.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.Subject != "user-42" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-42")
	}
	if claims.Issuer != "lendpeak-test" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "lendpeak-test")
	}
	if len(claims.Roles) != 2 {
		t.Fatalf("Roles length = %d, want 2", len(claims.Roles))
	}
	if claims.Roles[0] != RoleAdmin || claims.Roles[1] != RoleOperator {
		t.Errorf("Roles = %v, want [%s, %s]", claims.Roles, RoleAdmin, RoleOperator)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "lendpeak-test",
		Expiration: -1 * time.Hour, // already expired
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	tokenString, err := svc.GenerateToken("user-42", []string{RoleAPIClient})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(tokenString); err == nil {
		t.Fatal("ValidateToken() expected error for expired token, got nil")
	}
}

func TestValidateToken_InvalidSignature(t *testing.T) {
	svc1, err := NewJWTService(JWTConfig{
		Secret:     "secret-one",
		Issuer:     "lendpeak-test",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	svc2, err := NewJWTService(JWTConfig{
		Secret:     "secret-two",
		Issuer:     "lendpeak-test",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	tokenString, err := svc1.GenerateToken("user-42", []string{RoleAPIClient})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc2.ValidateToken(tokenString); err == nil {
		t.Fatal("ValidateToken() expected error for invalid signature, got nil")
	}
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issuer, err := NewJWTService(JWTConfig{
		Secret:     "shared-secret",
		Issuer:     "someone-else",
		Expiration: 15 * time.Minute,
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	validator, err := NewJWTService(JWTConfig{
		Secret: "shared-secret",
		Issuer: "lendpeak-test",
	})
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}

	tokenString, err := issuer.GenerateToken("user-42", nil)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := validator.ValidateToken(tokenString); err == nil {
		t.Fatal("ValidateToken() expected error for wrong issuer, got nil")
	}
}

func TestHasRole(t *testing.T) {
	claims := Claims{
		Roles: []string{RoleAdmin, RoleOperator},
	}

	if !claims.HasRole(RoleAdmin) {
		t.Error("HasRole(RoleAdmin) = false, want true")
	}
	if !claims.HasRole(RoleOperator) {
		t.Error("HasRole(RoleOperator) = false, want true")
	}
	if claims.HasRole(RoleAPIClient) {
		t.Error("HasRole(RoleAPIClient) = true, want false")
	}
	if claims.HasRole("nonexistent") {
		t.Error("HasRole(nonexistent) = true, want false")
	}
}

func TestClaimsFromContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := ClaimsFromContext(ctx); ok {
		t.Error("ClaimsFromContext() = true for empty context, want false")
	}

	claims := &Claims{Roles: []string{RoleAdmin}}
	ctx = ContextWithClaims(ctx, claims)

	got, ok := ClaimsFromContext(ctx)
	if !ok {
		t.Fatal("ClaimsFromContext() = false after ContextWithClaims, want true")
	}
	if got != claims {
		t.Error("ClaimsFromContext() returned different claims instance")
	}
}

func TestRequireRole(t *testing.T) {
	interceptor := RequireRole(RoleOperator, RoleAdmin)
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Mutate"}
	handler := func(_ context.Context, _ interface{}) (interface{}, error) {
		return "ok", nil
	}

	t.Run("matching role passes", func(t *testing.T) {
		ctx := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleOperator}})
		resp, err := interceptor(ctx, nil, info, handler)
		if err != nil {
			t.Fatalf("interceptor error = %v, want nil", err)
		}
		if resp != "ok" {
			t.Errorf("interceptor resp = %v, want ok", resp)
		}
	})

	t.Run("missing role is denied", func(t *testing.T) {
		ctx := ContextWithClaims(context.Background(), &Claims{Roles: []string{RoleAPIClient}})
		_, err := interceptor(ctx, nil, info, handler)
		if status.Code(err) != codes.PermissionDenied {
			t.Errorf("status = %v, want PermissionDenied", status.Code(err))
		}
	})

	t.Run("no claims is unauthenticated", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, info, handler)
		if status.Code(err) != codes.Unauthenticated {
			t.Errorf("status = %v, want Unauthenticated", status.Code(err))
		}
	})
}
