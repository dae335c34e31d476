package warden

import (
	"fmt"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Bot      BotConfig      `toml:"bot"`
	DB       DBConfig       `toml:"db"`
	Roles    RolesConfig    `toml:"roles"`
	Channels ChannelsConfig `toml:"channels"`
	XP       XPConfig       `toml:"xp"`
}

type BotConfig struct {
	Token     string         `toml:"token"`
	GuildID   snowflake.ID   `toml:"guild_id"`
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type RolesConfig struct {
	Staff     snowflake.ID `toml:"staff"`
	Admin     snowflake.ID `toml:"admin"`
	Filemuted snowflake.ID `toml:"filemuted"`
}

type ChannelsConfig struct {
	Welcome           snowflake.ID `toml:"welcome"`
	Goodbye           snowflake.ID `toml:"goodbye"`
	Administration    snowflake.ID `toml:"administration"`
	MembersTracker    snowflake.ID `toml:"members_tracker"`
	DailyScoreTracker snowflake.ID `toml:"daily_score_tracker"`
	Promocode         snowflake.ID `toml:"promocode"`
}

type XPConfig struct {
	MinGain            int64          `toml:"min_gain"`
	MaxGain            int64          `toml:"max_gain"`
	CooldownSeconds    int            `toml:"cooldown_seconds"`
	IgnoredChannels    []snowflake.ID `toml:"ignored_channels"`
	PromoRequiredScore int64          `toml:"promo_required_score"`
	PromoNotifications []int64        `toml:"promo_notifications"`
}
