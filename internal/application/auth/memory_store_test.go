package auth_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/usa-store/internal/application/auth"
	"github.com/jhoicas/usa-store/internal/domain/entity"
)

func TestMemoryLockoutStore_UpdateConcurrente(t *testing.T) {
	store := auth.NewMemoryLockoutStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("ana", func(st *entity.LoginAttemptState) { st.FailCount++ })
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, store.Get("ana").FailCount)

	store.Delete("ana")
	assert.Zero(t, store.Get("ana").FailCount)

	store.Update("beto", func(st *entity.LoginAttemptState) { st.LockedUntil = time.Now().Add(time.Minute) })
	store.Reset()
	assert.False(t, store.Get("beto").Locked(time.Now()))
}

func TestMemorySessionStore_DevuelveCopia(t *testing.T) {
	store := auth.NewMemorySessionStore()
	assert.Nil(t, store.Get())

	store.Set(&entity.Session{ID: "s1", UserID: 1, Name: "Ana", Role: entity.RoleAdmin})
	got := store.Get()
	got.Name = "mutado"
	assert.Equal(t, "Ana", store.Get().Name)

	store.Reset()
	assert.Nil(t, store.Get())
}
