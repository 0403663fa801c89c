package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prospectsheet/internal/mockserver"
)

// nocomock serves an in-memory prospección table and the manual-start
// webhook so prospectsheet can be tried without a NocoDB instance.
func main() {
	var (
		addr    string
		rows    int
		seed    int64
		token   string
		latency time.Duration
		fail    []string
	)
	pflag.StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	pflag.IntVar(&rows, "rows", 40, "number of generated records")
	pflag.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed for generated records")
	pflag.StringVar(&token, "token", "dev-token", "required xc-token (empty accepts any)")
	pflag.DurationVar(&latency, "latency", 300*time.Millisecond, "delay added to every table request")
	pflag.StringSliceVar(&fail, "fail", nil, "spreadsheet ids the webhook answers with HTTP 500")
	pflag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	records := mockserver.Generate(rows, rand.New(rand.NewSource(seed)), time.Now())
	s := mockserver.New(records, mockserver.Options{Token: token, Latency: latency, Logger: log})
	for _, id := range fail {
		s.FailWebhook(id)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	fmt.Fprintf(os.Stderr, "PROSPECT_NOCODB_BASE_URL=http://%s/api/v2/tables/mock/records\n", addr)
	fmt.Fprintf(os.Stderr, "PROSPECT_NOCODB_TOKEN=%s\n", token)
	fmt.Fprintf(os.Stderr, "PROSPECT_WEBHOOK_URL=http://%s%s\n", addr, mockserver.WebhookPath)
	fmt.Fprintln(os.Stderr, "PROSPECT_DISPATCH_INTERVAL=1s")
	if err := g.Wait(); err != nil {
		log.Error("nocomock stopped", zap.Error(err))
		os.Exit(1)
	}
}
