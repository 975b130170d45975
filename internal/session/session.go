// Package session keeps the signed-in identity and one-shot flash messages in a
// server-side fiber session, stored in Redis when available.
package session

import (
	"encoding/json"
	"time"

	"climateforum/internal/middleware"

	"github.com/gofiber/fiber/v2"
	fsession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie name.
const CookieName = "forum_session"

const (
	keyAccountID   = "account_id"
	keyUsername    = "username"
	keyIsModerator = "is_moderator"
	keyFlashes     = "_flashes"
)

// Flash categories used by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Options struct {
	TTL    time.Duration
	Secure bool
	// Redis is optional; sessions live in process memory without it.
	Redis *redis.Client
}

// Manager wraps a fiber session store with the forum's session keys.
type Manager struct {
	store *fsession.Store
}

func NewManager(opts Options) *Manager {
	cfg := fsession.Config{
		Expiration:     opts.TTL,
		KeyLookup:      "cookie:" + CookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   opts.Secure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	}
	if opts.Redis != nil {
		cfg.Storage = NewRedisStorage(opts.Redis)
	}
	return &Manager{store: fsession.New(cfg)}
}

// Identity returns the signed-in identity stored in the session, if any.
func (m *Manager) Identity(c *fiber.Ctx) (*middleware.Identity, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, err
	}
	id, ok := sess.Get(keyAccountID).(uint)
	if !ok || id == 0 {
		return nil, nil
	}
	username, _ := sess.Get(keyUsername).(string)
	isModerator, _ := sess.Get(keyIsModerator).(bool)
	return &middleware.Identity{UserID: id, Username: username, IsModerator: isModerator}, nil
}

// Login starts a fresh session for the identity and queues a flash on it.
func (m *Manager) Login(c *fiber.Ctx, id middleware.Identity, flash *Flash) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(keyAccountID, id.UserID)
	sess.Set(keyUsername, id.Username)
	sess.Set(keyIsModerator, id.IsModerator)
	if flash != nil {
		if err := appendFlash(sess, *flash); err != nil {
			return err
		}
	}
	return sess.Save()
}

// Logout clears the session and queues a flash on the replacement session.
func (m *Manager) Logout(c *fiber.Ctx, flash *Flash) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	if flash != nil {
		if err := appendFlash(sess, *flash); err != nil {
			return err
		}
	}
	return sess.Save()
}

// AddFlash queues a message for the next rendered page.
func (m *Manager) AddFlash(c *fiber.Ctx, category, message string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err
	}
	if err := appendFlash(sess, Flash{Category: category, Message: message}); err != nil {
		return err
	}
	return sess.Save()
}

// PopFlashes returns and clears queued messages.
func (m *Manager) PopFlashes(c *fiber.Ctx) ([]Flash, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, err
	}
	flashes, err := readFlashes(sess)
	if err != nil || len(flashes) == 0 {
		return flashes, err
	}
	sess.Delete(keyFlashes)
	return flashes, sess.Save()
}

func readFlashes(sess *fsession.Session) ([]Flash, error) {
	raw, _ := sess.Get(keyFlashes).(string)
	if raw == "" {
		return nil, nil
	}
	var flashes []Flash
	if err := json.Unmarshal([]byte(raw), &flashes); err != nil {
		return nil, err
	}
	return flashes, nil
}

func appendFlash(sess *fsession.Session, flash Flash) error {
	flashes, err := readFlashes(sess)
	if err != nil {
		flashes = nil
	}
	flashes = append(flashes, flash)
	raw, err := json.Marshal(flashes)
	if err != nil {
		return err
	}
	sess.Set(keyFlashes, string(raw))
	return nil
}
