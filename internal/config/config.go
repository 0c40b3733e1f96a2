package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	PDF    PDFConfig

	// DatabaseDSN is either a sqlite file path/URI or a postgres URL.
	DatabaseDSN string

	// SecretKey signs the flash-message cookies. When unset a random
	// ephemeral key is generated at startup; flashes then do not survive a
	// restart, which is acceptable for a single-writer deployment.
	SecretKey string

	// Migrations switches startup from gorm AutoMigrate to the SQL files
	// under migrations/.
	Migrations bool
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type PDFConfig struct {
	// Dir is where generated invoice PDFs are written as on-disk copies of
	// the last download.
	Dir string
}

// Load reads configuration from the environment (optionally seeded from a
// .env file) with development defaults.
func Load() Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("no .env file found, using environment variables: %v", err)
	}

	viper.SetDefault("APP_NAME", "invoiceapp")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("DATABASE_DSN", "invoiceapp.db")
	viper.SetDefault("PDF_DIR", "static/pdfs")
	viper.SetDefault("MIGRATIONS", false)
	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	viper.SetDefault("SERVER_IDLE_TIMEOUT", 60)

	secret := viper.GetString("SECRET_KEY")
	if secret == "" {
		secret = randomSecret()
		log.Print("SECRET_KEY not set, generated an ephemeral key")
	}

	return Config{
		App: AppConfig{
			Name: viper.GetString("APP_NAME"),
			Env:  viper.GetString("APP_ENV"),
		},
		Server: ServerConfig{
			Port:         viper.GetString("APP_PORT"),
			ReadTimeout:  viper.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetInt("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  viper.GetInt("SERVER_IDLE_TIMEOUT"),
		},
		PDF: PDFConfig{
			Dir: viper.GetString("PDF_DIR"),
		},
		DatabaseDSN: viper.GetString("DATABASE_DSN"),
		SecretKey:   secret,
		Migrations:  viper.GetBool("MIGRATIONS"),
	}
}

// IsDev reports whether the app runs in development mode (templates reloaded
// on every request, verbose DB logging allowed).
func (c Config) IsDev() bool {
	return c.App.Env == "development"
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is not recoverable in any useful way
		panic(err)
	}
	return hex.EncodeToString(b)
}
