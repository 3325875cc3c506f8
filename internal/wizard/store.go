package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/washday/laundry-backend/pkg/config"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

const lockScope = "wizard"

// Session is a wizard plus the identity it was started for.
type Session struct {
	ID         string     `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Wizard     *Wizard    `json:"wizard"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type sessionStore interface {
	SaveWizard(ctx context.Context, key string, payload []byte, ttl time.Duration, phase, terminal string) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ExtendLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	WizardKey(sessionID string) string
	LockKey(scope, id string) string
}

// Store keeps wizard sessions in Redis with a sliding expiry.
type Store struct {
	client  sessionStore
	ttl     time.Duration
	lockTTL time.Duration
}

func NewStore(client sessionStore, cfg config.WizardConfig) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("wizard session ttl must be positive")
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &Store{client: client, ttl: cfg.SessionTTL, lockTTL: lockTTL}, nil
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Load fetches a session and extends its expiry.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	key := s.client.WizardKey(id)
	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wizard session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wizard session")
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode wizard session")
	}
	if sess.Wizard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "wizard session is empty")
	}
	if sess.Wizard.Errors == nil {
		sess.Wizard.Errors = FieldErrors{}
	}

	if _, err := s.client.Expire(ctx, key, s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh wizard session")
	}
	return &sess, nil
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" || sess.Wizard == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "invalid wizard session")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode wizard session")
	}
	saved, err := s.client.SaveWizard(ctx, s.client.WizardKey(sess.ID), payload, s.ttl, string(sess.Wizard.Phase), string(PhaseSucceeded))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wizard session")
	}
	if !saved {
		return ErrCompleted
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.client.WizardKey(id)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wizard session")
	}
	return nil
}

// Lock serializes mutations on one session. The lock is refreshed in the
// background until the returned func releases it; that func is safe to call
// after the request context is gone.
func (s *Store) Lock(ctx context.Context, id string) (func(), error) {
	key := s.client.LockKey(lockScope, id)
	owner := uuid.NewString()
	ok, err := s.client.SetNX(ctx, key, owner, s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock wizard session")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "wizard session is busy, retry shortly")
	}

	bg := context.WithoutCancel(ctx)
	done := make(chan struct{})
	go s.keepLock(bg, key, owner, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(done)
			_, _ = s.client.ReleaseLock(bg, key, owner)
		})
	}
	return release, nil
}

// keepLock re-arms the lock every third of its TTL so slow payment calls
// cannot outlive it. It stops once released or when ownership is lost.
func (s *Store) keepLock(ctx context.Context, key, owner string, done <-chan struct{}) {
	ticker := time.NewTicker(s.lockTTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ok, err := s.client.ExtendLock(ctx, key, owner, s.lockTTL)
			if err == nil && !ok {
				return
			}
		}
	}
}
