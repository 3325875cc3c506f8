package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/config"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

type memoryRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	extends int
	getErr  error
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRedis) SaveWizard(_ context.Context, key string, payload []byte, ttl time.Duration, phase, terminal string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if current, ok := m.data[key]; ok && phase != terminal {
		var stored Session
		if json.Unmarshal([]byte(current), &stored) == nil && stored.Wizard != nil && string(stored.Wizard.Phase) == terminal {
			return false, nil
		}
	}
	m.data[key] = string(payload)
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryRedis) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryRedis) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = toString(value)
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryRedis) Expire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return false, nil
	}
	m.ttls[key] = ttl
	return true, nil
}

func (m *memoryRedis) ExtendLock(_ context.Context, key, owner string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[key] != owner {
		return false, nil
	}
	m.ttls[key] = ttl
	m.extends++
	return true, nil
}

func (m *memoryRedis) extendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extends
}

func (m *memoryRedis) ReleaseLock(_ context.Context, key, owner string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[key] != owner {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

func (m *memoryRedis) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryRedis) WizardKey(id string) string      { return "wd:wizard:" + id }
func (m *memoryRedis) LockKey(scope, id string) string { return "wd:lock:" + scope + ":" + id }

func toString(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func newTestStore(t *testing.T) (*Store, *memoryRedis) {
	t.Helper()
	mem := newMemoryRedis()
	store, err := NewStore(mem, config.WizardConfig{SessionTTL: 2 * time.Hour, LockTTL: 10 * time.Second})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, mem
}

func TestStoreRoundTripKeepsWizardState(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	w := New(false)
	mustSet(t, w, FieldName, "Jane")
	mustSet(t, w, FieldDryerSheets, "true")
	sess := &Session{ID: "abc", Wizard: w, CreatedAt: time.Now().UTC()}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if mem.ttls["wd:wizard:abc"] != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", mem.ttls["wd:wizard:abc"])
	}

	mem.ttls["wd:wizard:abc"] = time.Minute
	loaded, err := store.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Wizard.Draft.Name != "Jane" || !loaded.Wizard.Draft.DryerSheets {
		t.Fatalf("unexpected draft %+v", loaded.Wizard.Draft)
	}
	if loaded.Wizard.Errors == nil {
		t.Fatal("errors map should be initialised after load")
	}
	if mem.ttls["wd:wizard:abc"] != 2*time.Hour {
		t.Fatal("expected load to slide the ttl")
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store, mem := newTestStore(t)
	if _, err := store.Load(context.Background(), "nope"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mem.getErr = errors.New("connection reset")
	if _, err := store.Load(context.Background(), "nope"); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestStoreLockIsExclusive(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "abc")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if _, err := store.Lock(ctx, "abc"); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict while locked, got %v", err)
	}

	unlock()
	if _, ok := mem.data["wd:lock:wizard:abc"]; ok {
		t.Fatal("lock key should be released")
	}
	again, err := store.Lock(ctx, "abc")
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	again()
}

func TestStoreLockIsRefreshedUntilReleased(t *testing.T) {
	mem := newMemoryRedis()
	store, err := NewStore(mem, config.WizardConfig{SessionTTL: time.Hour, LockTTL: 30 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	unlock, err := store.Lock(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for mem.extendCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("lock was not refreshed while held")
		}
		time.Sleep(5 * time.Millisecond)
	}

	unlock()
	unlock()
	after := mem.extendCount()
	time.Sleep(60 * time.Millisecond)
	if got := mem.extendCount(); got != after {
		t.Fatalf("refresh continued after release: %d -> %d", after, got)
	}
}

func TestStoreSaveKeepsCompletedSession(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	w := reviewWizard(t)
	if _, err := w.PreparePayment(ctx, okGateway(), pricing.Default()); err != nil {
		t.Fatalf("PreparePayment: %v", err)
	}
	sess := &Session{ID: "abc", Wizard: w}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stale, err := store.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := w.ConfirmPayment(ctx, okGateway(), PaymentDetails{PaymentMethodID: "pm_card_visa"}); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("Save completed: %v", err)
	}

	mustSet(t, stale.Wizard, FieldName, "Someone Else")
	if err := store.Save(ctx, stale); !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected stale save to be refused, got %v", err)
	}

	var stored Session
	if err := json.Unmarshal([]byte(mem.data["wd:wizard:abc"]), &stored); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stored.Wizard.Phase != PhaseSucceeded || stored.Wizard.Draft.Name != "Jane Doe" {
		t.Fatalf("completed session was overwritten: %s %q", stored.Wizard.Phase, stored.Wizard.Draft.Name)
	}
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("completed session must accept its own updates: %v", err)
	}
}

func TestNewStoreValidation(t *testing.T) {
	if _, err := NewStore(nil, config.WizardConfig{SessionTTL: time.Hour}); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewStore(newMemoryRedis(), config.WizardConfig{}); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
