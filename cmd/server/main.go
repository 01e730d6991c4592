package main

import (
	"os"

	"github.com/Cofre-dev/BotBoletas/pkg/config"
	"github.com/Cofre-dev/BotBoletas/pkg/server"
	"github.com/charmbracelet/log"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "botboletas",
	})

	cfg := config.Cargar()
	srv := server.New(cfg, logger, nil)
	if err := srv.Run(); err != nil {
		logger.Fatal("error del servidor", "err", err)
	}
}
