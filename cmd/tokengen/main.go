// Package main provides a CLI tool for generating client tokens for the
// mrzgate API. These tokens use the dev signing key and will NOT work in
// production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	jwttoken "mrzgate/internal/jwt_token"
	"mrzgate/internal/platform/config"
	id "mrzgate/pkg/domain"
	"mrzgate/pkg/secrets"
	s "mrzgate/pkg/string"
)

const defaultTokenTTL = 1 * time.Hour

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "client":
		return generateClientToken(args[1:], stdout, stderr)
	case "key":
		return generateSigningKey(stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `tokengen - Generate client tokens for the mrzgate API

WARNING: These tokens use the dev signing key and will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen client [flags]
  tokengen key

Commands:
  client   Mint a client token
  key      Print a random signing key for JWT_SIGNING_KEY

Examples:
  # Token allowed to decode and read documents
  tokengen client

  # Read-only token for a known client
  tokengen client -client-id "550e8400-e29b-41d4-a716-446655440000" -scopes documents:read

  # Output as JSON
  tokengen client -json`)
}

func generateClientToken(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(stderr)
	clientIDFlag := fs.String("client-id", "", "Client ID (UUID). Generated if empty.")
	scopesFlag := fs.String("scopes", jwttoken.ScopeDecode+","+jwttoken.ScopeRead, "Comma-separated scopes")
	ttl := fs.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	signingKey := fs.String("key", config.DevSigningKey, "HS256 signing key")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	clientID, err := parseOrGenerateClientID(*clientIDFlag)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid client-id: %v\n", err)
		return 1
	}
	scopes := s.DedupeLower(strings.Split(*scopesFlag, ","))

	svc := jwttoken.NewJWTService(*signingKey, jwttoken.DefaultIssuer, jwttoken.DefaultAudience, *ttl)
	token, jti, err := svc.GenerateClientToken(context.Background(), clientID, scopes)
	if err != nil {
		fmt.Fprintf(stderr, "Error generating token: %v\n", err)
		return 1
	}

	keyType := "custom"
	if *signingKey == config.DevSigningKey {
		keyType = "dev"
	}

	if *jsonOutput {
		printJSON(stdout, tokenOutput{
			Token:     token,
			Type:      "client_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"client_id": clientID.String(),
				"scope":     scopes,
				"jti":       jti,
			},
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		})
		return 0
	}

	fmt.Fprintln(stdout, "Client Token (JWT)")
	fmt.Fprintln(stdout, "==================")
	fmt.Fprintf(stdout, "Signing Key: %s\n", keyType)
	fmt.Fprintf(stdout, "Expires In:  %s\n", ttl)
	fmt.Fprintf(stdout, "Client ID:   %s\n", clientID)
	fmt.Fprintf(stdout, "Scopes:      %v\n", scopes)
	fmt.Fprintf(stdout, "JTI:         %s\n", jti)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Token:")
	fmt.Fprintln(stdout, token)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintln(stdout, `  curl -H "Authorization: Bearer <token>" http://localhost:8080/documents/formats`)
	return 0
}

func generateSigningKey(stdout, stderr io.Writer) int {
	key, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(stderr, "Error generating key: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, key)
	return 0
}

func parseOrGenerateClientID(input string) (id.ClientID, error) {
	if input == "" {
		return id.ClientID(uuid.New()), nil
	}
	return id.ParseClientID(input)
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
