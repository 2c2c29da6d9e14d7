package config

type StoreConfig interface {
	GetStoreDriver() string
	GetStorePath() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetStoreDriver is one of "sqlite", "redis" or "memory".
func (Store) GetStoreDriver() string {
	return GetEnv("STORE_DRIVER", "sqlite")
}

func (Store) GetStorePath() string {
	return GetEnv("STORE_PATH", "./data/kiosk.db")
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	return GetEnvAsInt("REDIS_DB", 0)
}

// GetRedisPrefix namespaces keys so several kiosks can share one redis.
func (Store) GetRedisPrefix() string {
	return GetEnv("REDIS_PREFIX", "gym:kiosk:")
}
