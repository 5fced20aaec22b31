package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"carclub/paddock/internal/auth"
	"carclub/paddock/internal/config"
	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/db"
	"carclub/paddock/internal/db/repositories"
	"carclub/paddock/internal/logging"

	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logging.Init(cfg.Env); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logging.Close()

	tokens := auth.NewTokenProvider(cfg.JWTSecret, cfg.JWTIssuer)

	externalID := func() cli.Flag {
		return &cli.StringFlag{Name: "external-id", Usage: "identity the token is issued for", Required: true}
	}
	ttl := func() cli.Flag {
		return &cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: 24 * time.Hour}
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "bootstrap a paddock database",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update the schema",
				Action: func(c *cli.Context) error {
					// InitPostgresORM migrates on open.
					if _, err := db.InitPostgresORM(cfg.Postgres.DSN()); err != nil {
						return err
					}
					fmt.Println("Schema is up to date")
					return nil
				},
			},
			{
				Name:  "admin",
				Usage: "ensure a SUPER_ADMIN exists and print a bearer token for it",
				Flags: []cli.Flag{
					externalID(),
					&cli.StringFlag{Name: "name", Usage: "display name"},
					ttl(),
				},
				Action: func(c *cli.Context) error {
					gdb, err := db.InitPostgresORM(cfg.Postgres.DSN())
					if err != nil {
						return err
					}
					users := repositories.NewUserRepository(gdb)

					user, err := users.EnsureByExternalID(c.Context, c.String("external-id"), c.String("name"))
					if err != nil {
						return fmt.Errorf("ensure user: %w", err)
					}
					if user.SiteRole != constants.SiteRoleSuperAdmin {
						if err := users.UpdateSiteRole(c.Context, user.ID, constants.SiteRoleSuperAdmin); err != nil {
							return fmt.Errorf("promote user: %w", err)
						}
						logging.Info("promoted user to SUPER_ADMIN", "user_id", user.ID, "external_id", user.ExternalID)
					}

					token, err := tokens.GenerateToken(user.ExternalID, c.String("name"), c.Duration("ttl"))
					if err != nil {
						return err
					}
					fmt.Println("User ID:", user.ID)
					fmt.Println("Bearer token:", token)
					return nil
				},
			},
			{
				Name:  "token",
				Usage: "print a bearer token without touching the database",
				Flags: []cli.Flag{externalID(), ttl()},
				Action: func(c *cli.Context) error {
					token, err := tokens.GenerateToken(c.String("external-id"), "", c.Duration("ttl"))
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
