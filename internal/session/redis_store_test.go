package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*redisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	g := NewWithT(t)
	store, mr := newTestRedisStore(t, time.Hour)

	s := testSession()
	id, err := store.Save(context.Background(), s)

	g.Expect(err).ToNot(HaveOccurred())
	// Same opaque key format as the memory store: 32 bytes base64url.
	g.Expect(id).To(HaveLen(43))
	g.Expect(id).ToNot(ContainSubstring("="))

	// The record lives under the namespaced key with the store TTL.
	g.Expect(mr.TTL(redisKeyPrefix + id)).To(Equal(time.Hour))

	got, ok, err := store.Get(context.Background(), id)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(got.User).To(Equal(s.User))
	g.Expect(got.Tokens.AccessToken).To(Equal(s.Tokens.AccessToken))
	g.Expect(got.Tokens.RefreshToken).To(Equal(s.Tokens.RefreshToken))
	g.Expect(got.CreatedAt).To(BeTemporally("~", s.CreatedAt, time.Second))
	g.Expect(got.Authenticated()).To(BeTrue())

	// Sessions survive reads.
	_, ok, err = store.Get(context.Background(), id)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeTrue())
}

func TestRedisStore_GetMissing(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "unknown id", id: "unknown-id"},
		{name: "empty id", id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			store, _ := newTestRedisStore(t, time.Hour)

			s, ok, err := store.Get(context.Background(), tt.id)

			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(ok).To(BeFalse())
			g.Expect(s).To(BeNil())
		})
	}
}

func TestRedisStore_GetExpired(t *testing.T) {
	g := NewWithT(t)
	store, mr := newTestRedisStore(t, time.Hour)

	id, err := store.Save(context.Background(), testSession())
	g.Expect(err).ToNot(HaveOccurred())

	mr.FastForward(2 * time.Hour)

	s, ok, err := store.Get(context.Background(), id)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(s).To(BeNil())
}

func TestRedisStore_GetCorruptRecord(t *testing.T) {
	g := NewWithT(t)
	store, mr := newTestRedisStore(t, time.Hour)

	g.Expect(mr.Set(redisKeyPrefix+"corrupt-id", "not json")).To(Succeed())

	// A corrupt document reads as logged out, not as a store failure.
	s, ok, err := store.Get(context.Background(), "corrupt-id")
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeFalse())
	g.Expect(s).To(BeNil())
}

func TestRedisStore_Update(t *testing.T) {
	g := NewWithT(t)
	store, mr := newTestRedisStore(t, time.Hour)

	id, err := store.Save(context.Background(), testSession())
	g.Expect(err).ToNot(HaveOccurred())

	// Half the session lifetime passes before the tokens are refreshed.
	mr.FastForward(30 * time.Minute)

	refreshed := testSession()
	refreshed.Tokens.AccessToken = "new-access-token"
	g.Expect(store.Update(context.Background(), id, refreshed)).To(Succeed())

	got, ok, err := store.Get(context.Background(), id)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	g.Expect(got.Tokens.AccessToken).To(Equal("new-access-token"))

	// The update must not extend the session lifetime.
	g.Expect(mr.TTL(redisKeyPrefix + id)).To(Equal(30 * time.Minute))
}

func TestRedisStore_UpdateMissing(t *testing.T) {
	g := NewWithT(t)
	store, _ := newTestRedisStore(t, time.Hour)

	err := store.Update(context.Background(), "unknown-id", testSession())

	g.Expect(err).To(HaveOccurred())
	var storeErr *StoreError
	g.Expect(err).To(BeAssignableToTypeOf(storeErr))
}

func TestRedisStore_DestroyIdempotent(t *testing.T) {
	g := NewWithT(t)
	store, _ := newTestRedisStore(t, time.Hour)

	id, err := store.Save(context.Background(), testSession())
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(store.Destroy(context.Background(), id)).To(Succeed())
	_, ok, err := store.Get(context.Background(), id)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeFalse())

	// Destroying again must not error.
	g.Expect(store.Destroy(context.Background(), id)).To(Succeed())
	g.Expect(store.Destroy(context.Background(), "never-existed")).To(Succeed())
}

func TestRedisStore_KeyGenerationError(t *testing.T) {
	g := NewWithT(t)
	store, _ := newTestRedisStore(t, time.Hour)

	store.generateKey = func() ([32]byte, error) {
		return [32]byte{}, fmt.Errorf("key generation failed")
	}

	_, err := store.Save(context.Background(), testSession())

	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("failed to generate session id"))
	g.Expect(err.Error()).To(ContainSubstring("key generation failed"))
}

func TestRedisStore_KeyCollisionHandling(t *testing.T) {
	g := NewWithT(t)
	store, _ := newTestRedisStore(t, time.Hour)

	callCount := 0
	store.generateKey = func() ([32]byte, error) {
		callCount++
		if callCount <= 2 {
			return [32]byte{1, 2, 3}, nil
		}
		return [32]byte{4, 5, 6}, nil
	}

	id1, err := store.Save(context.Background(), testSession())
	g.Expect(err).ToNot(HaveOccurred())

	// The second save draws the same key, SetNX refuses it, and the store
	// retries until the key is fresh.
	id2, err := store.Save(context.Background(), testSession())
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(id2).ToNot(Equal(id1))
	g.Expect(callCount).To(Equal(3))

	// Both sessions are retrievable: the collision did not overwrite.
	_, ok, err := store.Get(context.Background(), id1)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeTrue())
	_, ok, err = store.Get(context.Background(), id2)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ok).To(BeTrue())
}
