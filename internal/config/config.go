package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
	"time"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"VoiceCartBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:"voicecart"`
	} `yaml:"mongo"`
	Cart struct {
		TtlMinutes int `yaml:"ttl_minutes" env-default:"120"`
		MaxRetries int `yaml:"max_retries" env-default:"3"`
	} `yaml:"cart"`
	Catalog struct {
		BaseURL        string   `yaml:"base_url" env-default:""`
		TokenURL       string   `yaml:"token_url" env-default:""`
		ClientID       string   `yaml:"client_id" env:"CATALOG_CLIENT_ID" env-default:""`
		ClientSecret   string   `yaml:"client_secret" env:"CATALOG_CLIENT_SECRET" env-default:""`
		Scopes         []string `yaml:"scopes"`
		CacheMinutes   int      `yaml:"cache_minutes" env-default:"5"`
		TimeoutSeconds int      `yaml:"timeout_seconds" env-default:"10"`
	} `yaml:"catalog"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env:"LISTEN_API_KEY" env-default:""`
	} `yaml:"listen"`
}

func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.Cart.TtlMinutes) * time.Minute
}

func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.Catalog.CacheMinutes) * time.Minute
}

func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.Catalog.TimeoutSeconds) * time.Second
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
