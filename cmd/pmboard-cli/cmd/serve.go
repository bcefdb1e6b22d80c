package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pmboard/internal/adapters/httpapi"
	"pmboard/internal/logging"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board as a JSON API",
	Long: `Serve records, timeline and graph data as JSON for a browser chart.
Refresh and analysis requests are forwarded to the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadBoard(cmd.Context()); err != nil {
			// serve whatever arrives on the next refresh
			logging.LogError(err, "initial fetch")
		}

		addr := listenAddr
		if addr == "" {
			addr = cfg.Listen
		}
		srv := httpapi.NewServer(GetApp().Board, httpapi.Forms(cfg.Forms), cfg.CORSOrigins)
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Show the whole-project form links",
	Long: `Print the externally hosted forms used to add, edit or delete a whole
project. They are configured under "forms" in the config file.`,
	Run: func(cmd *cobra.Command, args []string) {
		printForm("add", cfg.Forms.Add)
		printForm("edit", cfg.Forms.Edit)
		printForm("delete", cfg.Forms.Delete)
	},
}

func printForm(name, url string) {
	if url == "" {
		url = "(not configured)"
	}
	fmt.Printf("%-7s %s\n", name, url)
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "address to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(formsCmd)
}
