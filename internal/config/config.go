package config

import "github.com/caarlos0/env/v10"

// Config centraliza a configuração do serviço.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	BcryptCost  int    `env:"BCRYPT_COST" envDefault:"10"`
}

// LoadConfig carrega a configuração a partir de variáveis de ambiente.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
