// Command gentoken prints a signed token for calling the protected API by hand.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"character-merge-api/internal/auth"
	"character-merge-api/internal/config"
)

func main() {
	sub := flag.String("sub", "user-1", "user ID placed in the token subject")
	username := flag.String("username", "tester", "username claim")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	// JWT_SECRET, JWT_ISSUER and JWT_AUDIENCE must match the server's.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	token, err := auth.NewManager(cfg.JWT).GenerateTokenWithTTL(*sub, *username, *ttl)
	if err != nil {
		log.Fatal("Failed to generate token: ", err)
	}
	fmt.Println(token)
}
