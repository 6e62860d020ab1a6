package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	BaseURL       string
	DatabaseDSN   string
	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	DiscordToken string
	GuildID      string

	AccessSecret      string
	AdminUsername     string
	AdminPasswordHash string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	return Config{
		ServerPort:    getEnv("SERVER_PORT", ":3000"),
		BaseURL:       getEnv("BASE_URL", "*"),
		DatabaseDSN:   os.Getenv("DATABASE_DSN"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "guild.audit"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "pricebot-log-relay"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		DiscordToken: os.Getenv("DISCORD_BOT_TOKEN"),
		GuildID:      os.Getenv("DISCORD_GUILD_ID"),

		AccessSecret:      os.Getenv("ACCESS_SECRET"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
