package shared

import "fmt"

// IdempotencyRedisKey builds redis keys for processed request keys.
func IdempotencyRedisKey(module, key string) string {
	return fmt.Sprintf("idem:%s:%s", module, key)
}
