package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// The worker drains room.reserved events into <BOOKING_LOG_DIR>/booking.log.
func main() {
	cfg := config.LoadWorker()
	if cfg.Env == "dev" {
		log.SetLevel(log.DEBUG)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("booking worker consuming %s into %s", queue.RoomReservedQueue, cfg.BookingLogDir)
	if err := queue.StartBookingConsumer(ctx, cfg.RabbitURL, cfg.BookingLogDir); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
	log.Info("booking worker stopped")
}
