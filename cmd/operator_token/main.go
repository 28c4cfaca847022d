package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/securematch/securematch/application/port/outbound"
	"github.com/securematch/securematch/infrastructure/service/jwt"
)

// operator_token mints a bearer token for the operator routes. There is no
// login flow; whoever holds JWT_SECRET decides who operates the service.
func main() {
	user := flag.String("user", "operator", "operator name recorded in the token")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if strings.TrimSpace(*user) == "" {
		log.Fatal("user cannot be empty")
	}

	tokenService, err := jwt.NewJWTService(secret, *ttl, "securematch")
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}

	token, err := tokenService.GenerateAccessToken(outbound.TokenClaims{
		UserID: *user,
		Role:   outbound.RoleInternal,
	})
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Operator token for %s, valid for %s\n", *user, *ttl)
	fmt.Println(token)
}
