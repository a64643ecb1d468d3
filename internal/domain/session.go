package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Session явно передаваемый контекст аутентификации (вместо глобального хранилища токенов)
type Session struct {
	AccessToken string
	UserID      int64 // 0 = ещё не известен, определяется через GetCurrentUser
}

// IsAnonymous returns true if the session carries no credentials at all
func (s Session) IsAnonymous() bool {
	return s.AccessToken == "" && s.UserID == 0
}

// Key returns a stable key identifying the session owner.
// The token itself never appears in the key, only its digest.
func (s Session) Key() string {
	switch {
	case s.AccessToken != "" && s.UserID != 0:
		return "token:" + tokenDigest(s.AccessToken) + "/user:" + strconv.FormatInt(s.UserID, 10)
	case s.AccessToken != "":
		return "token:" + tokenDigest(s.AccessToken)
	default:
		return "user:" + strconv.FormatInt(s.UserID, 10)
	}
}

// Label короткое имя сессии для логов, без токена
func (s Session) Label() string {
	if s.UserID != 0 {
		return "user:" + strconv.FormatInt(s.UserID, 10)
	}
	if s.AccessToken != "" {
		return "token:" + tokenDigest(s.AccessToken)[:8]
	}
	return "anonymous"
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:16])
}
