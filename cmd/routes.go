package cmd

import (
	"io"
	"strconv"

	lapi "github.com/massimiliano76/lapi/http"
	"github.com/massimiliano76/lapi/session/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the registered routes in lookup order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		router := newRouter(&cfg.Router, storage.NewMemorySessionStore())
		printRoutes(cmd.OutOrStdout(), router)
		return nil
	},
}

func printRoutes(w io.Writer, router *lapi.Router) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Method", "Path"})
	table.SetAutoWrapText(false)

	for i, route := range router.Routes() {
		table.Append([]string{strconv.Itoa(i + 1), route.Method.String(), route.Path})
	}

	table.Render()
}
