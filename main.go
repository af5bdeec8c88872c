package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vlinh/hanzimatch/apps/go-server/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Error().Err(err).Msg("hanzimatch")
		os.Exit(1)
	}
}
