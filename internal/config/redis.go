package config

// Redis счётчики ограничений покупок и очередь фоновых задач. Пустой адрес
// отключает и то и другое.
type Redis struct {
	Address        string `env:"REDIS_ADDRESS"`
	Username       string `env:"REDIS_USERNAME"`
	Password       string `env:"REDIS_PASSWORD" json:"-"`
	DatabaseNumber int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize       int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	TaskQueue      string `env:"REDIS_TASK_QUEUE" envDefault:"market"`
	// TaskConcurrency обработчиков задач одновременно.
	TaskConcurrency int `env:"REDIS_TASK_CONCURRENCY" envDefault:"2"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}
