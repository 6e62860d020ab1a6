package main

import (
	"github.com/DimaKostyrskyj/PriceBot/config"
	"github.com/DimaKostyrskyj/PriceBot/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
