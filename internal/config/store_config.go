package config

type StoreConfig interface {
	GetDatabaseURL() string
	GetRedisAddr() string
	GetRedisPassword() string
}

type Stores struct{}

var _ StoreConfig = Stores{}

func (Stores) GetDatabaseURL() string {
	return GetEnv("DATABASE_URL", "")
}

func (Stores) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Stores) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}
