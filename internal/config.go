package internal

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is shared by both server binaries. Each one reads only its own port.
type Config struct {
	Host            string        `env:"HOST"`
	StreamPort      int           `env:"STREAM_PORT,default=8888" validate:"min=1,max=65535"`
	DatagramPort    int           `env:"DATAGRAM_PORT,default=8889" validate:"min=1,max=65535"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	Locale          string        `env:"LOCALE,default=zh" validate:"oneof=zh en"`
	MaxConnections  int           `env:"MAX_CONNECTIONS,default=0" validate:"min=0"`
	DeliveryTimeout time.Duration `env:"DELIVERY_TIMEOUT,default=0s" validate:"min=0"`
	DatagramSize    int           `env:"DATAGRAM_SIZE,default=1024" validate:"min=64,max=65507"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"min=0"`
	StatusInterval  time.Duration `env:"STATUS_INTERVAL,default=30s" validate:"min=0"`
	JournalPath     string        `env:"JOURNAL_PATH"`
	HealthPort      int           `env:"HEALTH_PORT,default=0" validate:"min=0,max=65535"`
	DebugPort       int           `env:"DEBUG_PORT,default=0" validate:"min=0,max=65535"`
	CensoredDir     string        `env:"CENSORED_DIR"`
	CensorCharacter string        `env:"CENSOR_CHARACTER,default=*"`
}

// LoadConfig reads an optional .env file then the environment.
func LoadConfig() (Config, error) {
	// A missing .env is not an error
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if _, err := CharacterRune(config.CensorCharacter); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Addr joins a host and a port, "" meaning every interface.
func Addr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CENSOR_CHARACTER must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
