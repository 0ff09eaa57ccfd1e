package main

import (
	"context"
	"os"

	"github.com/klokku/timetrack/internal/app"
	"github.com/klokku/timetrack/internal/utils"
	log "github.com/sirupsen/logrus"
)

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}

func main() {
	application := app.NewApplication(os.Stdout, os.Stderr, &utils.SystemClock{})
	if err := application.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
