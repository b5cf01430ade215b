package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chrisdamba/greengrocer/internal/api"
	"github.com/chrisdamba/greengrocer/internal/catalog"
	"github.com/chrisdamba/greengrocer/internal/checkout"
	"github.com/chrisdamba/greengrocer/internal/favorites"
	"github.com/chrisdamba/greengrocer/internal/geocode"
	"github.com/chrisdamba/greengrocer/internal/output"
	"github.com/chrisdamba/greengrocer/internal/schedule"
	"github.com/chrisdamba/greengrocer/internal/storage"
	"github.com/chrisdamba/greengrocer/internal/tracking"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		backends, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer backends.Close()

		events, err := output.New(cfg.Output)
		if err != nil {
			return err
		}
		defer output.Closer(events)()

		notifier := favorites.NewOutputNotifier(events, 64)
		defer notifier.Close()
		store := favorites.NewStore(ctx, backends.KeyValue, multiNotifier{favorites.LogNotifier{}, notifier},
			favorites.WithPersistTimeout(cfg.Storage.Timeout))

		sim := tracking.NewSimulator(schedule.Real(), tracking.FromConfig(cfg.Tracking)...)
		defer sim.Close()
		publisher := tracking.NewPublisher(events, nil)
		sim.Subscribe(publisher.Observe)

		cat := catalog.FromConfig(cfg.Catalog)
		geocoder := geocode.New(cfg.Geocoder)
		checkoutSvc := checkout.NewService(cfg.Checkout, cat, backends.Orders, geocoder, events)

		server := &api.Server{
			Version:   Version,
			Catalog:   cat,
			Favorites: store,
			Tracker:   sim,
			Checkout:  checkoutSvc,
		}
		app := server.App()

		go func() {
			<-ctx.Done()
			log.Info().Msg("Shutting down")
			if err := app.ShutdownWithContext(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error shutting down server")
			}
		}()

		log.Info().Str("listen", cfg.Server.Listen).Int("catalog_items", cat.Len()).Msg("Starting API server")
		return app.Listen(cfg.Server.Listen)
	},
}

// multiNotifier fans a notification out to several notifiers.
type multiNotifier []favorites.Notifier

func (m multiNotifier) Notify(title, description string) {
	for _, n := range m {
		n.Notify(title, description)
	}
}

func init() {
	serveCmd.Flags().String("listen", ":8080", "address to listen on")
	serveCmd.Flags().String("storage", "file", "storage backend (memory, file, redis, postgres, s3)")
	serveCmd.Flags().String("output", "console", "event output format (console, json, csv, parquet, kafka, none)")
}
