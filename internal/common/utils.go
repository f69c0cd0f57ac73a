package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const JWTExpire = 24 * time.Hour

func GetAuthorizationToken(authHeader string) (string, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", NewErrNo(TokenInvalid)
	}
	return parts[1], nil
}

func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
