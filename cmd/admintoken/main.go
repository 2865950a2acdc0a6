// Command admintoken prints a signed admin JWT for the configured JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tair/alcohol-tracker/internal/config"
	"github.com/tair/alcohol-tracker/pkg/auth"
)

func main() {
	username := flag.String("user", "admin", "username placed in the token")
	userID := flag.Uint("id", 1, "user id placed in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	if tokens == nil {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set; admin endpoints are open and need no token")
		os.Exit(1)
	}

	token, err := tokens.GenerateToken(*userID, *username, auth.RoleAdmin, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
