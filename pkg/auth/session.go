// Package auth resolves the board owner of a request from a server-side
// session.
//
// Only an encrypted session ID travels in the cookie; the session values
// (the owner's user_id) live in Redis. Keys must be random:
// 32 or 64 bytes for HMAC, 16, 24 or 32 bytes for AES.
//
//	openssl rand -base64 32
package auth

import (
	"bytes"
	"context"
	"encoding/base32"
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "mindflow:session:"

	// SessionMaxAge is how long an idle owner session stays valid.
	SessionMaxAge = 7 * 24 * time.Hour
)

// RedisStore is a sessions.Store keeping session values in Redis under
// "mindflow:session:<id>" with a TTL equal to the cookie MaxAge.
type RedisStore struct {
	client  *redis.Client
	codecs  []securecookie.Codec
	options sessions.Options
}

// NewSessionStore returns a Redis-backed store. secureCookie restricts the
// cookie to HTTPS and should be set in production.
//
//	store := auth.NewSessionStore(
//	    app.Redis.Client(),
//	    []byte(cfg.SessionAuthKey),
//	    []byte(cfg.SessionEncryptionKey),
//	    cfg.Environment == config.EnvProduction,
//	)
func NewSessionStore(client *redis.Client, authKey, encryptionKey []byte, secureCookie bool) *RedisStore {
	return &RedisStore{
		client: client,
		codecs: securecookie.CodecsFromPairs(authKey, encryptionKey),
		options: sessions.Options{
			Path:     "/",
			MaxAge:   int(SessionMaxAge / time.Second),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Get returns the named session, cached per request by the registry.
func (s *RedisStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New loads the session referenced by the request cookie. A missing,
// tampered or expired cookie, or a session gone from Redis, yields a fresh
// empty session rather than an error.
func (s *RedisStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := s.options
	session.Options = &opts
	session.IsNew = true

	id, ok := s.decodeCookie(r, name)
	if !ok {
		return session, nil
	}
	values, err := s.load(r.Context(), id)
	if err != nil {
		return session, nil
	}

	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save writes the session values to Redis and sets the cookie. A negative
// MaxAge deletes both.
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.client.Del(r.Context(), s.key(session.ID)).Err(); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}
	if err := s.store(r.Context(), session); err != nil {
		return err
	}

	cookie, err := securecookie.EncodeMulti(session.Name(), session.ID, s.codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), cookie, session.Options))
	return nil
}

func (s *RedisStore) decodeCookie(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.codecs...); err != nil {
		return "", false
	}
	return id, true
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}

func (s *RedisStore) store(ctx context.Context, session *sessions.Session) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(session.Values); err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := s.client.Set(ctx, s.key(session.ID), buf.Bytes(), ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context, id string) (map[interface{}]interface{}, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		return nil, err
	}
	values := make(map[interface{}]interface{})
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&values); err != nil {
		return nil, fmt.Errorf("decode session values: %w", err)
	}
	return values, nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

// StartSession binds ownerID to the request's session and sets the cookie.
// RequireAuth resolves the same owner on later requests.
func StartSession(w http.ResponseWriter, r *http.Request, store sessions.Store, ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return errors.New("start session: nil owner")
	}
	session, err := store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	session.Values[sessionUserIDKey] = ownerID.String()
	return session.Save(r, w)
}

// EndSession deletes the request's session and expires the cookie.
func EndSession(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
