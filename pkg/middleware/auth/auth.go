package auth

import (
	// 外部依赖
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	bcrypt "golang.org/x/crypto/bcrypt"

	// 内部引用
	config "github.com/metabuildlab/lims/internal/config"
	common "github.com/metabuildlab/lims/pkg/common"
	code "github.com/metabuildlab/lims/pkg/common/code"
	uuid "github.com/metabuildlab/lims/pkg/common/uuid"
)

var USERKEY = "AUTH_USER_KEY"

// Claims 签进 token 的用户身份
type Claims struct {
	jwt.RegisteredClaims
	UserUUID uuid.UUID   `json:"user_uuid"`
	Username string      `json:"username"`
	Role     common.Role `json:"role"`
}

// IssueToken 按配置的 TTL 签发 HS256 token
func IssueToken(userUUID uuid.UUID, username string, role common.Role) (string, time.Time, error) {
	authConf := config.Global().Auth
	expiresAt := time.Now().Add(time.Duration(authConf.TokenTTL) * time.Hour)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserUUID: userUUID,
		Username: username,
		Role:     role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(authConf.JWTSecret))
	if err != nil {
		return "", time.Time{}, code.InternalErr.WithErr(err)
	}
	return token, expiresAt, nil
}

// ParseToken 校验签名与有效期
func ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, code.InvalidToken
		}
		return []byte(config.Global().Auth.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, code.InvalidToken.WithErr(err)
	}
	return claims, nil
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", code.InternalErr.WithErr(err)
	}
	return string(hash), nil
}

func CheckPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
