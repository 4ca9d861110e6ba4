// Command loopback runs a sender and a receiver session over the
// in-memory channel pair and prints latency stats. It exercises the
// whole data plane without a network.
package main

import (
	"flag"
	"fmt"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/poselink/poselink/internal/config"
	"github.com/poselink/poselink/internal/log"
	"github.com/poselink/poselink/pkg/input"
	"github.com/poselink/poselink/pkg/session"
	"github.com/poselink/poselink/pkg/transport"
)

func main() {
	rate := flag.Int("rate", config.FrameRate(), "send cadence in Hz")
	level := flag.String("log-level", config.LogLevel(), "log level (debug|info|warn|error)")
	flag.Parse()

	log.Init(*level)

	src := input.NewSynthetic(time.Second / 60)
	defer src.Stop()

	left, right := transport.Pipe()

	sender := session.New(session.Config{
		Dialer:    left,
		Source:    src,
		FrameRate: *rate,
	})
	receiver := session.New(session.Config{
		Dialer: right,
	})

	receiver.Connect()
	sender.Connect()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	ossignal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-stop:
			sender.Disconnect()
			receiver.Disconnect()
			return
		case <-ticker.C:
			tx := sender.Snapshot()
			rx := receiver.Snapshot()
			line := fmt.Sprintf("sent=%d received=%d", tx.Stats.PacketsSent, rx.Stats.PacketsReceived)
			if rx.Stats.HasLatency {
				line += fmt.Sprintf(" last=%.3fms avg=%.3fms", rx.Stats.LastLatencyMS, rx.Stats.AvgLatencyMS)
			}
			fmt.Println(line)
		}
	}
}
