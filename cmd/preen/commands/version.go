package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/preenlabs/preen/internal/output"
	"github.com/preenlabs/preen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			w, err := output.NewWriter(os.Stdout, output.FormatJSON)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()
			return w.Write(version.Get())
		}
		fmt.Println(version.Full())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("json", false, "output as JSON")
}
