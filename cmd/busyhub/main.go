package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"github.com/busyhub/busyhub/internal/achievements"
	"github.com/busyhub/busyhub/internal/aggregate"
	"github.com/busyhub/busyhub/internal/ai"
	"github.com/busyhub/busyhub/internal/cache"
	"github.com/busyhub/busyhub/internal/config"
	"github.com/busyhub/busyhub/internal/database"
	"github.com/busyhub/busyhub/internal/digest"
	"github.com/busyhub/busyhub/internal/google"
	"github.com/busyhub/busyhub/internal/insight"
	"github.com/busyhub/busyhub/internal/notify"
	"github.com/busyhub/busyhub/internal/sanitize"
	"github.com/busyhub/busyhub/internal/server"
	"github.com/busyhub/busyhub/internal/source"
)

func main() {
	app := &cli.App{
		Name:  "busyhub",
		Usage: "Visualize calendar activity and generate productivity insights.",
		Commands: []*cli.Command{
			authCommand(),
			analyzeCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account and save its token.",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
			}

			oauthCfg := google.OAuthConfig(cfg.GoogleClientID, cfg.GoogleClientSecret)
			authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			reader := bufio.NewReader(os.Stdin)
			fmt.Print("Enter Authorization Code: ")
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(c.Context, oauthCfg, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Print("Enter a name for this account (e.g., 'personal', 'work'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			tokenFile := "token-" + accountName + ".json"

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Saved token to %s\n", tokenFile)
			return nil
		},
	}
}

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Fetch a year of events and print its activity summary.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "Target year (defaults to the current year)."},
			&cli.BoolFlag{Name: "insight", Usage: "Also generate the AI analysis."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			src, err := buildSource(c.Context, logger, cfg)
			if err != nil {
				return err
			}

			year := c.Int("year")
			if year == 0 {
				year = time.Now().Year()
			}

			raw, err := src.EventsForYear(c.Context, year)
			if err != nil {
				return fmt.Errorf("failed to fetch events: %w", err)
			}

			result := sanitize.Run(raw)
			stats := aggregate.Run(result.Confirmed)
			badges := achievements.Evaluate(result.Daily)

			fmt.Printf("Year %d: %d events, %d confirmed across %d active days\n",
				year, len(result.Sanitized), result.Total, len(result.Daily))
			fmt.Printf("Buckets: %d days, %d weeks, %d months\n",
				len(stats.Daily), len(stats.Weekly), len(stats.Monthly))
			fmt.Printf("Achievements: welcome=%v beginner=%v onFire=%v king=%v\n",
				badges.Welcome, badges.Beginner, badges.OnFire, badges.King)

			if !c.Bool("insight") {
				return nil
			}
			data := insight.Synthesize(result.Confirmed, result.Daily, keywordsFromConfig(cfg))
			if data == nil {
				fmt.Println("No confirmed events, nothing to analyze.")
				return nil
			}
			if cfg.AIAPIKey == "" {
				return fmt.Errorf("AI_API_KEY is required for --insight")
			}
			aiClient := ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
			analysis, usage, err := aiClient.Analyze(c.Context, data.Prompt)
			if err != nil {
				return fmt.Errorf("failed to generate analysis: %w", err)
			}
			fmt.Printf("\n%s\n\n(tokens: %d prompt, %d completion)\n",
				analysis, usage.PromptTokens, usage.CompletionTokens)
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the dashboard API (and the digest scheduler, when configured).",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := setupLogger(cfg.LogLevel)

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				logger.Info("shutting down")
				cancel()
			}()

			src, err := buildSource(ctx, logger, cfg)
			if err != nil {
				return err
			}

			store, closeStore, err := buildCache(ctx, logger, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			var aiClient *ai.Client
			if cfg.AIAPIKey != "" {
				aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
				logger.Info("AI client initialized", "model", cfg.AIModel)
			} else {
				logger.Info("AI client not configured, insight analysis disabled")
			}

			kw := keywordsFromConfig(cfg)
			srv := server.New(logger, src, aiClient, store, kw, cfg.UserEmail)

			if cfg.File.DigestCron != "" && cfg.TelegramToken != "" && cfg.TelegramChatID != "" && aiClient != nil {
				notifier, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
				if err != nil {
					return err
				}
				d := digest.New(logger, src, aiClient, store, notifier, kw, cfg.UserEmail)
				go func() {
					if err := d.Start(ctx, cfg.File.DigestCron); err != nil {
						logger.Error("digest scheduler failed", "error", err)
					}
				}()
			}

			if err := srv.Run(ctx, cfg.Listen); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

// buildSource assembles the configured event sources: every authenticated
// Google account plus every ICS feed from the config file.
func buildSource(ctx context.Context, logger *slog.Logger, cfg *config.Config) (server.EventSource, error) {
	var sources []server.EventSource

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		accounts, err := google.TokenAccounts()
		if err != nil {
			return nil, fmt.Errorf("failed to list token accounts: %w", err)
		}
		for _, acc := range accounts {
			client, err := google.NewClient(ctx, logger, cfg.GoogleClientID, cfg.GoogleClientSecret, acc)
			if err != nil {
				return nil, fmt.Errorf("failed to create Google client for account %s: %w", acc, err)
			}
			sources = append(sources, source.FromGoogle(client, cfg.GoogleCalendarID))
		}
		if len(accounts) > 0 {
			logger.Info("initialized Google clients", "count", len(accounts))
		}
	}

	if len(cfg.File.Sources) > 0 {
		sources = append(sources, source.FromICS(logger, cfg.File.Sources))
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no event sources configured: run 'auth' for Google or list ICS sources in the config file")
	}
	return source.Combine(sources...), nil
}

// buildCache picks the shared Postgres store when a database is configured,
// falling back to the in-process store.
func buildCache(ctx context.Context, logger *slog.Logger, cfg *config.Config) (cache.Store, func(), error) {
	if cfg.DatabaseURI == "" {
		return cache.NewMemory(), func() {}, nil
	}

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("using Postgres insight cache")
	return cache.NewPostgres(db), db.Close, nil
}

func keywordsFromConfig(cfg *config.Config) insight.Keywords {
	kw := insight.DefaultKeywords()
	if len(cfg.File.Keywords.Recurring) > 0 {
		kw.Recurring = cfg.File.Keywords.Recurring
	}
	if len(cfg.File.Keywords.External) > 0 {
		kw.External = cfg.File.Keywords.External
	}
	return kw
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
