// Command sessions issues and revokes API session tokens.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/olympiad/internal/app"
)

func main() {
	var (
		configPath = flag.String("config", "config.toml", "Path to config file")
		issueFor   = flag.String("issue", "", "User id to issue a session token for")
		revoke     = flag.String("revoke", "", "Session id to revoke")
	)
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.Server.EnableAuth {
		logger.Error.Fatalf("Auth is disabled in %s, sessions are not used", *configPath)
	}

	auth, err := app.NewAuth(cfg)
	if err != nil {
		logger.Error.Fatalf("Failed to init auth: %v", err)
	}
	defer auth.Close()

	ctx := context.Background()
	switch {
	case *issueFor != "":
		token, info, err := auth.Tokens().Issue(ctx, *issueFor)
		if err != nil {
			logger.Error.Fatalf("Failed to issue session: %v", err)
		}
		logger.Info.Printf("Issued session %s for %s", info.SessionID, info.UserID)
		fmt.Println(token)
	case *revoke != "":
		if err := auth.Tokens().Revoke(ctx, *revoke); err != nil {
			logger.Error.Fatalf("Failed to revoke session %s: %v", *revoke, err)
		}
		logger.Info.Printf("Revoked session %s", *revoke)
	default:
		flag.Usage()
	}
}
