package main

import (
	"github.com/studyatlas/backend/internal/server"
	"github.com/studyatlas/backend/internal/util"
	"github.com/studyatlas/backend/pkg/logger"
	"github.com/studyatlas/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Prefix: "server",
		JSON:   util.GetEnvBool("LOG_JSON", false),
	})
	logger.Init(consoleLogger)

	server.Init()
}
