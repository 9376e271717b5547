package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/infohub-ai/knowledge-companion/companionservice"
)

func main() {
	if err := companionservice.Run(); err != nil {
		log.Error().Err(err).Msg("knowledge-companion exited with error")
		os.Exit(1)
	}
}
