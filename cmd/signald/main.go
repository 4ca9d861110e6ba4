package main

import (
	"flag"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/poselink/poselink/internal/config"
	"github.com/poselink/poselink/internal/log"
	"github.com/poselink/poselink/pkg/signal"
)

func main() {
	addr := flag.String("addr", config.DefaultSignalAddr, "listen address")
	level := flag.String("log-level", config.LogLevel(), "log level (debug|info|warn|error)")
	flag.Parse()

	log.Init(*level)

	srv := signal.NewServer()
	go func() {
		if err := srv.Listen(*addr); err != nil {
			log.Error("relay stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	ossignal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	srv.Shutdown()
}
