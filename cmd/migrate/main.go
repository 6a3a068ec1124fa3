package main

import (
	"homefix/config"
	"homefix/helper"
	"homefix/shared/logger"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

const (
	argLength      = 2
	forceArgLength = 3
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up/down) is required")
	}

	var err error

	switch os.Args[1] {
	case "up":
		err = helper.Up(cfg)
	case "down":
		err = helper.Down(cfg)
	case "drop":
		err = helper.Drop(cfg)
	case "step-up":
		err = helper.StepUp(cfg)
	case "version":
		err = helper.Version(cfg)
	case "force":
		if len(os.Args) < forceArgLength {
			log.Fatal().Msg("force needs the version to mark as applied")
		}

		version, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("Invalid migration version")
		}

		err = helper.Force(cfg, version)
	default:
		log.Fatal().Msg("Invalid direction. Use 'up', 'down', 'drop', 'step-up', 'version' or 'force <version>'")
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
