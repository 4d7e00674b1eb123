package cli

// #region imports
import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	v1 "github.com/danielpatrickdp/docchat/go-assistant/internal/transport/http/v1"
)

// #endregion

// #region command

var servePortFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assistant over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		a, err := buildApp()
		if err != nil {
			exitErr("startup", err)
		}
		defer a.close()

		port := a.cfg.HTTPPort
		if servePortFlag != 0 {
			port = servePortFlag
		}

		e := echo.New()
		e.HideBanner = true
		e.Use(middleware.Recover())
		v1.NewHandler(a.engine, a.transcript, a.log).Register(e)

		go func() {
			addr := fmt.Sprintf(":%d", port)
			a.log.Infow("[SERVE] listening", "addr", addr)
			if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
				a.log.Errorw("[SERVE] server stopped", "error", err)
				os.Exit(1)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			a.log.Errorw("[SERVE] shutdown", "error", err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", 0, "Listen port (default: $HTTP_PORT or 8080)")
	RootCmd.AddCommand(serveCmd)
}

// #endregion command
