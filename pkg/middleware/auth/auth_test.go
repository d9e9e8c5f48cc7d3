package auth

import (
	// 外部依赖
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	// 内部引用
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	userUUID := uuid.NewV4()
	token, expiresAt, err := IssueToken(userUUID, "labmanager", common.RoleLabManager)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("token should expire in the future")
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserUUID != userUUID || claims.Username != "labmanager" || claims.Role != common.RoleLabManager {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejectsTampered(t *testing.T) {
	token, _, err := IssueToken(uuid.NewV4(), "director", common.RoleDirector)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + ".AAAA"
	if _, err := ParseToken(tampered); !errors.Is(err, code.InvalidToken) {
		t.Fatalf("err = %v, want InvalidToken", err)
	}

	if _, err := ParseToken("not-a-token"); !errors.Is(err, code.InvalidToken) {
		t.Fatalf("err = %v, want InvalidToken", err)
	}
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserUUID: uuid.NewV4(),
		Username: "director",
		Role:     common.RoleDirector,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	if _, err := ParseToken(token); !errors.Is(err, code.InvalidToken) {
		t.Fatalf("err = %v, want InvalidToken", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("lims-dev-2025")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "lims-dev-2025" {
		t.Fatal("hash must not equal the plain text")
	}
	if !CheckPassword(hash, "lims-dev-2025") {
		t.Error("correct password should verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password should not verify")
	}
}
