package configs

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App      `mapstructure:"app"`
	Storage  `mapstructure:"storage"`
	Postgres `mapstructure:"postgres"`
	Slack    `mapstructure:"slack"`
	Nats     `mapstructure:"nats"`
	Dialogue `mapstructure:"dialogue"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port"`
	// AdminToken guards /v1/api; empty rejects every admin request
	AdminToken string `mapstructure:"admin_token"`
	// CORSOrigins is a comma separated allow list for the admin API
	CORSOrigins string `mapstructure:"cors_origins"`
}

// Storage struct - selects the document store backend ("memory" or "postgres")
type Storage struct {
	Driver string `mapstructure:"driver"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_open_conns"`
}

// Slack struct
type Slack struct {
	BotToken      string `mapstructure:"bot_token"`
	SigningSecret string `mapstructure:"signing_secret"`
}

// Nats struct - empty URL disables event publishing
type Nats struct {
	URL string `mapstructure:"url"`
}

// Dialogue struct - close-out conversation tuning.
// IdleTimeout is in seconds; 0 means a dialogue waits for a reply forever.
type Dialogue struct {
	ClosePhrase       string `mapstructure:"close_phrase"`
	IdleTimeout       int    `mapstructure:"idle_timeout"`
	MaxParallelPosts  int    `mapstructure:"max_parallel_posts"`
	SyncRosterOnStart bool   `mapstructure:"sync_roster_on_start"`
}

const (
	// StorageDriverMemory keeps documents in process memory
	StorageDriverMemory = "memory"
	// StorageDriverPostgres keeps documents in PostgreSQL
	StorageDriverPostgres = "postgres"
)

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	if env != "" {
		viper.Set("app.env", env)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Println("Config file has changed: ", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
}

func setDefaults() {
	viper.SetDefault("app.port", "9089")
	viper.SetDefault("app.admin_token", "")
	viper.SetDefault("app.cors_origins", "http://localhost:9089")
	viper.SetDefault("storage.driver", StorageDriverMemory)
	viper.SetDefault("dialogue.close_phrase", "done")
	viper.SetDefault("dialogue.idle_timeout", 0)
	viper.SetDefault("dialogue.max_parallel_posts", 4)
	viper.SetDefault("dialogue.sync_roster_on_start", false)
}
