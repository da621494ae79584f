// cmd/mailcheck/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/pkg/email"
	"github.com/your-org/storefront/internal/pkg/logger"
)

// mailcheck sends the welcome email through the configured provider so a
// deployment's mail settings can be verified by hand.
func main() {
	to := flag.String("to", "", "recipient address")
	flag.Parse()

	if *to == "" {
		log.Fatal("Usage: mailcheck -to <address>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sender, err := email.NewSender(cfg, logger.New(cfg))
	if err != nil {
		log.Fatalf("Failed to create %s sender: %v", cfg.External.Email.Provider, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := email.NewEmailService(cfg, sender).SendWelcomeEmail(ctx, *to); err != nil {
		log.Fatal("Send failed:", err)
	}

	log.Println("✅ Email sent successfully!")
}
