package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/barcache/internal/storage"
)

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List cached bar files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := storage.NewStore(cfg.Cache.Directory).List()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TICKERS\tSET\tYEARS\tTIMEFRAME\tSIZE\tMODIFIED\tFILE")
			for _, e := range entries {
				set := e.SetDigest
				if set == "" {
					set = "-"
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%d\t%s\t%s\n",
					e.Tickers, set, e.Years, e.TimeFrame, e.Size, e.ModTime.Format("2006-01-02 15:04"), e.Name)
			}
			return tw.Flush()
		},
	}
}
