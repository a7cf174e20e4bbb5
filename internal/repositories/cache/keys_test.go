package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	id := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
	assert.Equal(t, "product:id:7c9e6679-7425-40de-944b-e07fc1f90ae7", GenerateKey(EntityProduct, KeyID, id))
	assert.Equal(t, "user:id:7c9e6679-7425-40de-944b-e07fc1f90ae7", GenerateKey(EntityUser, KeyID, id))
}
