package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davideconti/worksafe_project/internal/services/fusion"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := fusion.NewService()
	metrics := fusion.NewMetrics()
	hub := fusion.NewHub()
	defer hub.Close()

	// ogni ricalcolo valido aggiorna metriche e stream dashboard
	svc.SetOnUpdate(func(st fusion.CISState) {
		metrics.Observe(st)
		hub.Broadcast(st)
	})

	// loop di controllo: un ricalcolo per tick
	go svc.Run(ctx, cfg.RecomputeTick())

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           fusion.NewHTTPMux(svc, metrics, hub),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("fusion node listening on %s", hs.Addr)
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("fusion node shutting down")
	cancel()

	shCtx, shCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownMs)*time.Millisecond)
	defer shCancel()
	_ = hs.Shutdown(shCtx)
}
