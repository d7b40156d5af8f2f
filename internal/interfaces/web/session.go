package web

import (
	"net/http"
	"time"

	"github.com/example/table-booker/internal/domain/user"
	"github.com/gorilla/securecookie"
)

const sessionName = "tablebook_session"

// SessionManager keeps the current user's email in an encrypted cookie.
type SessionManager struct{ sc *securecookie.SecureCookie }

func NewSessionManager(hashKey, blockKey []byte) *SessionManager {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(0)
	return &SessionManager{sc: sc}
}

func (s *SessionManager) Save(w http.ResponseWriter, r *http.Request, sess user.Session) error {
	encoded, err := s.sc.Encode(sessionName, map[string]string{"email": sess.Email})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name: sessionName, Value: encoded, Path: "/",
		Expires:  time.Now().AddDate(10, 0, 0),
		HttpOnly: true, SameSite: http.SameSiteLaxMode,
		Secure: r.TLS != nil,
	})
	return nil
}

// Load returns the session carried by r, or an empty one.
func (s *SessionManager) Load(r *http.Request) user.Session {
	c, err := r.Cookie(sessionName)
	if err != nil {
		return user.Session{}
	}
	value := map[string]string{}
	if err := s.sc.Decode(sessionName, c.Value, &value); err != nil {
		return user.Session{}
	}
	return user.Session{Email: value["email"]}
}
