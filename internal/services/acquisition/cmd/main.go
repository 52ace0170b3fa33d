package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davideconti/worksafe_project/internal/services/acquisition"
	"github.com/davideconti/worksafe_project/internal/services/acquisition/drivers"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uplink := acquisition.NewUplink(acquisition.UplinkConfig{
		BaseURL:         cfg.FusionURL,
		Timeout:         cfg.HTTPTimeout(),
		BreakerFailures: cfg.BreakerFailures,
		BreakerOpenFor:  cfg.BreakerOpenFor(),
	})

	display := acquisition.NewDisplay(acquisition.LogRenderer{}, time.Now())

	// in assenza di hardware reale i driver sono le implementazioni simulate
	seed := time.Now().UnixNano()
	sampler := acquisition.NewSampler(cfg.WorkerID,
		drivers.NewSimPulse(seed), drivers.NewSimIMU(seed+1), drivers.NewSimTemp(seed+2),
		display, uplink)

	go sampler.Run(ctx)
	log.Printf("acquisition node started (worker=%s fusion=%s)", cfg.WorkerID, cfg.FusionURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("acquisition node shutting down")
	cancel()
}
