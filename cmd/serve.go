package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsphweid/secretpiano/api"
	"github.com/jsphweid/secretpiano/constants"
	"github.com/jsphweid/secretpiano/session"
	"github.com/spf13/cobra"
)

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", constants.GetAddr(), "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the piano over HTTP",
	Long:  `Serves the piano over HTTP for a browser front end. Every client creates its own session.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(serve())
	},
}

func serve() error {
	bindings := loadBindings()
	newPlayer, release := playerFactory()
	defer release()

	manager := session.NewManager(func() session.Config {
		return session.Config{
			Bindings: bindings,
			Player:   newPlayer(),
			Logger:   logger,
		}
	})
	defer manager.CloseAll()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(manager, bindings, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
