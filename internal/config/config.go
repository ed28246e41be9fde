package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	HTTP     HTTP
	Postgres Postgres
	Redis    Redis
	Bot      Bot
	Market   Market `envPrefix:"MARKET_"`
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"flea-market"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
	// DataDir каталог с файлами данных игры.
	DataDir string `env:"DATA_DIR" envDefault:"data"`
	// RandomSeed фиксирует генератор случайных чисел, 0 берёт seed от времени.
	RandomSeed uint64 `env:"RANDOM_SEED"`
	// StartingRoubles баланс профиля, который создаётся при первом запросе.
	StartingRoubles int64 `env:"STARTING_ROUBLES" envDefault:"500000"`
}

type HTTP struct {
	ListenAddress        string `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	MetricsListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
	ProbeListenAddress   string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
	ShutdownTimeout      int    `env:"HTTP_SHUTDOWN_TIMEOUT_SECONDS" envDefault:"10"`
}

// Bot бот уведомлений о продажах и консоль оператора. Пустой токен
// отключает оба.
type Bot struct {
	Token   string `env:"BOT_TOKEN" json:"-"`
	ChatID  int64  `env:"BOT_CHAT_ID"`
	AdminID int64  `env:"BOT_ADMIN_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != "" && b.ChatID != 0
}

// ConsoleEnabled консоль принимает команды только от AdminID.
func (b Bot) ConsoleEnabled() bool {
	return b.Token != "" && b.AdminID != 0
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
