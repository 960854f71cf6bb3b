package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// Config is the full process configuration, read from the environment.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	LogPath      string `env:"LOG_PATH"`
	Debug        bool   `env:"DEBUG" envDefault:"false"`

	Node  Node
	Music Music
}

// Node describes a single Lavalink node to register on startup.
type Node struct {
	Name     string `env:"NODE_NAME" envDefault:"main"`
	Host     string `env:"NODE_HOST" envDefault:"localhost"`
	Port     int    `env:"NODE_PORT" envDefault:"2333"`
	Password string `env:"NODE_PASSWORD" envDefault:"youshallnotpass"`
	Secure   bool   `env:"NODE_SECURE" envDefault:"false"`
}

// Music is the playback configuration surface consumed by the player core.
type Music struct {
	MaxQueueSize     int    `env:"MUSIC_MAX_QUEUE_SIZE" envDefault:"100"`
	MaxPlaylistSize  int    `env:"MUSIC_MAX_PLAYLIST_SIZE" envDefault:"100"`
	MaxHistorySize   int    `env:"MUSIC_MAX_HISTORY_SIZE" envDefault:"100"`
	DefaultVolume    int    `env:"MUSIC_DEFAULT_VOLUME" envDefault:"100"`
	MaxVolume        int    `env:"MUSIC_MAX_VOLUME" envDefault:"200"`
	NoLimitVolume    bool   `env:"MUSIC_NO_LIMIT_VOLUME" envDefault:"false"`
	SearchEngine     string `env:"MUSIC_SEARCH_ENGINE" envDefault:"ytsearch"`
	DeleteNowPlaying bool   `env:"MUSIC_DELETE_NOW_PLAYING" envDefault:"false"`
	IdleTimeout      int    `env:"MUSIC_IDLE_TIMEOUT" envDefault:"300"` // seconds before an idle session disconnects, 0 disables

	PlaylistTable        string `env:"PLAYLIST_TABLE" envDefault:"playlist"`
	PlaylistMaxSongs     int    `env:"PLAYLIST_MAX_SONGS" envDefault:"20"`
	PlaylistMaxPlaylists int    `env:"PLAYLIST_MAX_PLAYLISTS" envDefault:"5"`
}

// New parses the configuration from the environment.
func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
