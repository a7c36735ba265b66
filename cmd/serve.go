package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/gradepath/internal/api"
	"github.com/abhisek/gradepath/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the prediction API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srvCfg := cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			srvCfg.Addr = addr
		}
		if err := srvCfg.Validate(); err != nil {
			return err
		}

		predictor, cleanup := interactivePredictor(ctx)
		defer cleanup()

		logging.Info().
			Str("addr", srvCfg.Addr).
			Str("predictor", predictor.Name()).
			Msg("starting api server")
		return api.NewServer(srvCfg, predictor).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
