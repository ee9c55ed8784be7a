package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/pacer/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseEntity(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	entity := domain.NewBaseEntity(now)

	assert.NotEqual(t, uuid.Nil, entity.ID())
	assert.Equal(t, now, entity.CreatedAt())
	assert.Equal(t, entity.CreatedAt(), entity.UpdatedAt())
}

func TestNewBaseEntityWithID(t *testing.T) {
	id := uuid.New()
	loc := time.FixedZone("UTC-5", -5*3600)
	entity := domain.NewBaseEntityWithID(id, time.Date(2025, 3, 10, 9, 0, 0, 0, loc))

	assert.Equal(t, id, entity.ID())
	assert.Equal(t, time.UTC, entity.CreatedAt().Location())
}

func TestBaseEntity_Touch(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	entity := domain.NewBaseEntity(created)

	later := created.Add(2 * time.Hour)
	entity.Touch(later)

	assert.Equal(t, later, entity.UpdatedAt())
	assert.Equal(t, created, entity.CreatedAt())
}

func TestRehydrateBaseEntity(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	entity := domain.RehydrateBaseEntity(id, created, updated)

	assert.Equal(t, id, entity.ID())
	assert.Equal(t, created, entity.CreatedAt())
	assert.Equal(t, updated, entity.UpdatedAt())
}

func TestBaseEntity_Equals(t *testing.T) {
	now := time.Now()
	id := uuid.New()
	entity1 := domain.NewBaseEntityWithID(id, now)
	entity2 := domain.NewBaseEntityWithID(id, now.Add(time.Minute))
	entity3 := domain.NewBaseEntity(now)

	assert.True(t, entity1.Equals(&entity2))
	assert.False(t, entity1.Equals(&entity3))
	assert.False(t, entity1.Equals(nil))
}
