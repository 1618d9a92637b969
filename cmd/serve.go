package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"rally-metrics/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the stored standings over HTTP",
	Long: `Start the HTTP API on HTTP_ADDR (default :8080):

  GET    /api/v1/player?team=&name=&searchText=
  GET    /api/v1/player/search?name=
  GET    /api/v1/player/{name}/summary
  POST   /api/v1/player
  PUT    /api/v1/player
  DELETE /api/v1/player/{name}
  POST   /api/v1/player/upload   (multipart "file", or CLEAN_CSV_PATH)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := api.NewServer(api.Options{
			Store:        store,
			Profiles:     newProfileService(store),
			Format:       numberFormat(),
			CleanCSVPath: cfg.CleanCSVPath,
			AllowOrigins: cfg.CORSOrigins,
		}, logger)
		return srv.ListenAndServe(cmd.Context(), firstNonEmpty(serveAddr, cfg.HTTPAddr))
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default HTTP_ADDR)")
}
