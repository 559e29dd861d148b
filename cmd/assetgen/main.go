package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"phonics-audio/log"
)

func main() {
	log.InitLogger()
	defer log.GetLogger().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
