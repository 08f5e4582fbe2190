// Command issue-token mints an operator bearer token signed with the
// server's configured key.
//
//	issue-token -role agent
//	issue-token -role admin -operator 0f8c... -ttl 1h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	jwttoken "rsu/internal/jwt_token"
	"rsu/internal/platform/config"
	id "rsu/pkg/domain"
	"rsu/pkg/requestcontext"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	roleFlag := fs.String("role", string(requestcontext.RoleViewer), "operator role: viewer, agent or admin")
	operatorFlag := fs.String("operator", "", "operator id (random when empty)")
	ttl := fs.Duration("ttl", cfg.Auth.TokenTTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	role, ok := requestcontext.ParseRole(*roleFlag)
	if !ok {
		return fmt.Errorf("unknown role %q", *roleFlag)
	}
	if *ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	operatorID := id.NewOperatorID()
	if *operatorFlag != "" {
		operatorID, err = id.ParseOperatorID(*operatorFlag)
		if err != nil {
			return fmt.Errorf("invalid operator id: %w", err)
		}
	}

	svc := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	token, err := svc.GenerateOperatorToken(operatorID, role, *ttl)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "operator %s, role %s, expires %s\n",
		operatorID, role, time.Now().Add(*ttl).UTC().Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
