package cache

import "fmt"

type EntityType string

const (
	EntityUser    EntityType = "user"
	EntityProduct EntityType = "product"
)

type KeyType string

const (
	KeyID KeyType = "id"
)

// GenerateKey creates a standardized cache key such as "product:id:<uuid>".
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}
