package main

import (
	"flag"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poselink/poselink/internal/config"
	"github.com/poselink/poselink/internal/log"
	"github.com/poselink/poselink/pkg/feed"
	"github.com/poselink/poselink/pkg/input"
	"github.com/poselink/poselink/pkg/session"
	"github.com/poselink/poselink/pkg/signal"
	"github.com/poselink/poselink/pkg/transport"
)

func main() {
	signalURL := flag.String("signal", config.SignalURL(config.DefaultSignalURL), "signaling relay URL")
	room := flag.String("room", config.Room("default"), "signaling room")
	synthetic := flag.Bool("synthetic", false, "generate synthetic input instead of waiting for a source")
	feedAddr := flag.String("feed", config.DefaultFeedAddr, "feed listen address (empty disables)")
	metricsAddr := flag.String("metrics", config.DefaultMetricsAddr, "prometheus listen address (empty disables)")
	rate := flag.Int("rate", config.FrameRate(), "send cadence in Hz")
	level := flag.String("log-level", config.LogLevel(), "log level (debug|info|warn|error)")
	flag.Parse()

	log.Init(*level)

	sig, err := signal.Dial(*signalURL, *room)
	if err != nil {
		log.Error("signaling connect failed", "err", err)
		os.Exit(1)
	}

	var src input.Source
	if *synthetic {
		synth := input.NewSynthetic(time.Second / 60)
		defer synth.Stop()
		src = synth
	}

	sess := session.New(session.Config{
		Dialer:    transport.NewWebRTC(sig),
		Source:    src,
		FrameRate: *rate,
		OnStateChange: func(st session.State) {
			log.Info("state changed", "state", st.String())
		},
	})

	if *metricsAddr != "" {
		prometheus.MustRegister(session.NewCollector(sess))
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Error("metrics server stopped", "err", err)
			}
		}()
		log.Info("metrics listening", "addr", *metricsAddr)
	}

	var feedSrv *feed.Server
	if *feedAddr != "" {
		feedSrv = feed.NewServer(sess)
		go func() {
			if err := feedSrv.Listen(*feedAddr); err != nil {
				log.Error("feed stopped", "err", err)
			}
		}()
	}

	sess.Connect()

	stop := make(chan os.Signal, 1)
	ossignal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	sess.Disconnect()
	if feedSrv != nil {
		feedSrv.Shutdown()
	}
}
