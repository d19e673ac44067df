package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"telewall/internal/client/api"
	"telewall/internal/client/bridge"
	"telewall/internal/client/directory"
	"telewall/internal/client/purchase"
	"telewall/internal/client/session"
	"telewall/internal/common/config"
	"telewall/internal/common/logger"
	"telewall/internal/platform/telegram"
)

func main() {
	buy := flag.String("buy", "", "Store item id to purchase, e.g. gift1")
	search := flag.String("search", "", "Search users by name or username")
	wait := flag.Duration("wait", 30*time.Second, "How long to wait for the payment sheet outcome")
	flag.Parse()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(os.Stderr, "telewall-client", cfg.Debug)
	os.Exit(run(ctx, cfg, options{buy: *buy, search: *search, wait: *wait}, os.Stdout, log))
}

type options struct {
	buy    string
	search string
	wait   time.Duration
}

func run(ctx context.Context, cfg *config.ClientConfig, opts options, out io.Writer, log zerolog.Logger) int {
	client := api.NewClient(cfg.APIURL, log,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithMaxRetries(cfg.MaxRetries),
	)

	host, err := newBridge(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Invalid bridge settings")
		return 1
	}

	sess := session.NewBootstrapper(host, client, log).Run(ctx)
	printSession(out, sess)

	if opts.search != "" {
		var source directory.Source = directory.NewRemoteSource(client)
		if sess.State == session.StateMockUser {
			source = directory.NewMockSource()
		}
		users, err := source.Search(ctx, opts.search)
		if err != nil {
			log.Error().Err(err).Msg("Search failed")
			return 1
		}
		fmt.Fprintf(out, "\nSearch %q: %d found\n", opts.search, len(users))
		for _, u := range users {
			fmt.Fprintf(out, "  %s  %s (@%s)\n", u.ID, u.Name, u.Username)
		}
	}

	items, err := client.ListStoreItems(ctx, true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load store")
		return 1
	}
	fmt.Fprintf(out, "\nStore:\n")
	for _, item := range items {
		fmt.Fprintf(out, "  %-8s %-6s %4d ★  %s\n", item.ID, item.ItemType, item.PriceStars, item.Name)
	}

	if opts.buy == "" {
		return 0
	}
	return buyItem(ctx, client, host, sess, opts, out, log)
}

func buyItem(ctx context.Context, client *api.Client, host bridge.Bridge, sess *session.Session, opts options, out io.Writer, log zerolog.Logger) int {
	// -1 means the refresh failed.
	refreshed := make(chan int, 1)
	controller := purchase.NewController(host, client, log, purchase.WithOnPaid(func(*purchase.Attempt) {
		entries, err := client.Inventory(ctx, sess.UserID())
		if err != nil {
			log.Warn().Err(err).Msg("Failed to refresh inventory")
			refreshed <- -1
			return
		}
		refreshed <- len(entries)
	}))

	attempt, err := controller.Purchase(ctx, sess, opts.buy)
	if err != nil {
		_, message := controller.Status()
		fmt.Fprintf(out, "\n%s\n", message)
		return 1
	}

	waitCtx, cancel := context.WithTimeout(ctx, opts.wait)
	defer cancel()
	status, err := attempt.Wait(waitCtx)
	if err != nil && waitCtx.Err() != nil {
		controller.Dismiss()
		fmt.Fprintf(out, "\nNo answer from the payment sheet for %s\n", attempt.InvoiceURL())
		return 1
	}

	fmt.Fprintf(out, "\n%s\n", purchase.Message(status))
	switch status {
	case purchase.StatusPaid:
		// Settlement is asynchronous; the item appears once the bot event is processed.
		select {
		case n := <-refreshed:
			if n >= 0 {
				fmt.Fprintf(out, "Inventory: %d items\n", n)
			}
		case <-waitCtx.Done():
		}
	case purchase.StatusFailed:
		return 1
	}
	return 0
}

// newBridge returns a nil Bridge when the client should behave as if it runs outside Telegram.
func newBridge(cfg *config.ClientConfig, log zerolog.Logger) (bridge.Bridge, error) {
	if !cfg.Headless {
		return nil, nil
	}

	outcome, err := bridge.ParseInvoiceStatus(cfg.InvoiceOutcome)
	if err != nil {
		return nil, err
	}

	if cfg.BotToken == "" || cfg.TelegramID == 0 {
		// No way to sign init data; the bootstrap falls back to the mock user.
		return bridge.NewHeadless("", outcome, time.Second, log), nil
	}
	host, err := bridge.NewSignedHeadless(cfg.BotToken, telegram.WebAppUser{
		ID:        cfg.TelegramID,
		FirstName: cfg.FirstName,
		Username:  cfg.Username,
	}, outcome, time.Second, log)
	if err != nil {
		return nil, err
	}
	return host, nil
}

func printSession(out io.Writer, sess *session.Session) {
	fmt.Fprintf(out, "Session: %s\n", sess.State)
	if sess.User == nil {
		fmt.Fprintf(out, "  anonymous (%v)\n", sess.Err)
		return
	}
	fmt.Fprintf(out, "  %s (@%s) id=%s telegram_id=%s stars=%d\n",
		sess.User.Name, sess.User.Username, sess.User.ID, sess.User.TelegramID, sess.User.StarsBalance)
}
