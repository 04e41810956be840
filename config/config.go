package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del scanner.
type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
	Venues  VenuesConfig  `yaml:"venues"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// ScannerConfig controla el comportamiento del scanner y del matcher.
type ScannerConfig struct {
	IntervalSeconds     int      `yaml:"interval_seconds"`
	TargetNotional      float64  `yaml:"target_notional"`       // cuánto quote currency intentamos gastar por deal
	MinProfitRatio      float64  `yaml:"min_profit_ratio"`      // bid/ask mínimo para molestarse en pedir profundidad
	Depth               int      `yaml:"depth"`                 // niveles del libro para el cálculo ponderado
	Workers             int      `yaml:"workers"`               // fan-out del aggregator
	QuoteCurrencies     []string `yaml:"quote_currencies"`      // USDT, USDC...
	PriceTimeoutSeconds int      `yaml:"price_timeout_seconds"` // timeout por venue
}

// VenuesConfig contiene los base URLs de cada exchange.
type VenuesConfig struct {
	KrakenBase string `yaml:"kraken_base"`
	MexcBase   string `yaml:"mexc_base"`
	KucoinBase string `yaml:"kucoin_base"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ScanInterval devuelve el intervalo de escaneo como time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Scanner.IntervalSeconds) * time.Second
}

// PriceTimeout devuelve el timeout por venue como time.Duration.
func (c *Config) PriceTimeout() time.Duration {
	return time.Duration(c.Scanner.PriceTimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("COINARB_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Scanner.IntervalSeconds <= 0 {
		cfg.Scanner.IntervalSeconds = 30
	}
	if cfg.Scanner.TargetNotional <= 0 {
		cfg.Scanner.TargetNotional = 500
	}
	if cfg.Scanner.MinProfitRatio <= 0 {
		cfg.Scanner.MinProfitRatio = 1.02
	}
	if cfg.Scanner.Depth <= 0 {
		cfg.Scanner.Depth = 100
	}
	if cfg.Scanner.Workers <= 0 {
		cfg.Scanner.Workers = 4
	}
	if len(cfg.Scanner.QuoteCurrencies) == 0 {
		cfg.Scanner.QuoteCurrencies = []string{"usdt", "usdc"}
	}
	// Las quote currencies viajan en lower-case por todo el pipeline (claves
	// de cache, output); los adapters ya las suben a mayúsculas en el wire.
	for i, base := range cfg.Scanner.QuoteCurrencies {
		cfg.Scanner.QuoteCurrencies[i] = strings.ToLower(base)
	}
	if cfg.Scanner.PriceTimeoutSeconds <= 0 {
		cfg.Scanner.PriceTimeoutSeconds = 3
	}
	if cfg.Venues.KrakenBase == "" {
		cfg.Venues.KrakenBase = "https://api.kraken.com"
	}
	if cfg.Venues.MexcBase == "" {
		cfg.Venues.MexcBase = "https://api.mexc.com"
	}
	if cfg.Venues.KucoinBase == "" {
		cfg.Venues.KucoinBase = "https://api.kucoin.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "coinarb.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
