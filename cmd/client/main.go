package main

import (
	"context"

	"github.com/dmitrijs2005/lunarjournal/internal/cli"
	"github.com/dmitrijs2005/lunarjournal/internal/config"
	"github.com/dmitrijs2005/lunarjournal/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.NewDefault(cfg.LogLevel)

	app := cli.NewApp(cfg, logger)
	app.Run(context.Background())

}
