package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	store := NewStore()

	sess := store.Create()
	if sess.ID == "" {
		t.Fatal("session has no id")
	}

	got, ok := store.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("created session not retrievable")
	}

	if _, ok := store.Get("missing"); ok {
		t.Error("unknown id should not resolve")
	}

	store.Delete(sess.ID)
	if _, ok := store.Get(sess.ID); ok {
		t.Error("deleted session still retrievable")
	}
}

func TestSessionValues(t *testing.T) {
	sess := NewStore().Create()

	if err := sess.Put(KeyRecognitionResult, `{"is_artwork":true}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := sess.Put(KeyRecognitionImage, "data:image/jpeg;base64,abc"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// The two handoff slots are independent.
	v, ok := sess.Get(KeyRecognitionResult)
	if !ok || v != `{"is_artwork":true}` {
		t.Errorf("result slot = %q, %v", v, ok)
	}
	sess.Remove(KeyRecognitionResult)
	if _, ok := sess.Get(KeyRecognitionResult); ok {
		t.Error("removed key still present")
	}
	if _, ok := sess.Get(KeyRecognitionImage); !ok {
		t.Error("image slot should be untouched by removing the result slot")
	}
}

func TestSessionUserIDConcurrent(t *testing.T) {
	// A browser fires parallel requests on one cookie, so sign-in can race
	// with authenticated reads. Run with -race.
	sess := NewStore().Create()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			sess.SetUserID(id)
		}(int64(i))
		go func() {
			defer wg.Done()
			_ = sess.UserID()
		}()
	}
	wg.Wait()

	if got := sess.UserID(); got < 0 || got > 15 {
		t.Errorf("UserID = %d, want one of the written values", got)
	}
}

func TestStoreEvictsIdleSessions(t *testing.T) {
	store := NewStore()

	stale := store.Create()
	store.mu.Lock()
	stale.lastSeen = time.Now().Add(-DefaultSessionTTL - time.Minute)
	store.mu.Unlock()

	fresh := store.Create()

	if _, ok := store.Get(stale.ID); ok {
		t.Error("idle session survived the sweep")
	}
	if _, ok := store.Get(fresh.ID); !ok {
		t.Error("fresh session was evicted")
	}
}

func TestSessionQuota(t *testing.T) {
	sess := NewStore().Create()

	big := strings.Repeat("x", MaxSessionBytes+1)
	if err := sess.Put(KeyRecognitionImage, big); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if _, ok := sess.Get(KeyRecognitionImage); ok {
		t.Error("failed Put must not leave a value behind")
	}

	// Overwriting an existing value frees its bytes first.
	half := strings.Repeat("y", MaxSessionBytes/2+10)
	if err := sess.Put(KeyRecognitionImage, half); err != nil {
		t.Fatalf("first half-size Put failed: %v", err)
	}
	if err := sess.Put(KeyRecognitionImage, half); err != nil {
		t.Fatalf("overwrite with same size failed: %v", err)
	}
}
