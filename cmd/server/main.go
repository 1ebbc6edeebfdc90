package main

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"os/signal"
	"syscall"

	"order_kiosk/internal/config"
	"order_kiosk/internal/handlers"
	"order_kiosk/internal/notify"
	"order_kiosk/internal/printing"
	"order_kiosk/internal/render"
	"order_kiosk/internal/store"
	"order_kiosk/pkg/serialport"

	"github.com/gin-gonic/gin"
	"golang.org/x/image/font"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Open the durable store and recover from disk
	st, err := store.Open(cfg.StorageDir)
	if err != nil {
		log.Fatal("Failed to open store:", err)
	}
	lastTs, err := st.Recover()
	if err != nil {
		log.Printf("Warning: recovery failed, starting with in-memory state: %v", err)
	} else {
		log.Printf("Recovered state up to %s", lastTs)
	}

	// Load the receipt font; without it the printer falls back to text tickets
	var face font.Face
	if face, err = render.LoadFace(cfg.FontPath, float64(cfg.FontSize)); err != nil {
		log.Printf("Warning: no receipt font, raster printing disabled: %v", err)
	}
	logo := loadLogo(cfg.LogoPath)

	// Open the printer link
	transport, err := serialport.Open(cfg.SerialDevice, cfg.SerialBaud, cfg.SerialMode)
	if err != nil {
		log.Printf("Warning: printer unavailable, writes will be discarded: %v", err)
		transport = serialport.Discard{}
	}

	// Initialize event sinks
	hub := notify.NewHub()
	sink := notify.MultiSink{hub}
	if cfg.RedisURL != "" {
		bridge, err := notify.NewRedisBridge(cfg.RedisURL, cfg.RedisChannel)
		if err != nil {
			log.Printf("Warning: redis bridge disabled: %v", err)
		} else {
			sink = append(sink, bridge)
		}
	}

	// Start the print worker
	pipeline := printing.New(st, transport, sink, face, cfg.PrinterDots)
	pipeline.SetLogo(logo)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go pipeline.Run(ctx)

	// Setup routes
	router := gin.Default()
	handler := handlers.New(st, pipeline, sink, hub, cfg.LogoPath)
	handler.Register(router)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func loadLogo(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		log.Printf("Warning: logo at %s is not decodable: %v", path, err)
		return nil
	}
	return img
}
