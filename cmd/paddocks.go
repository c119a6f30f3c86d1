package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var paddocksCmd = &cobra.Command{
	Use:   "paddocks",
	Short: "List imported paddocks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		paddocks, err := st.ListPaddocks(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tAREA (ha)")
		for _, p := range paddocks {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", p.ID, p.Name, p.AreaHa)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(paddocksCmd)
}
