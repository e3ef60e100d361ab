package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"apidoc/internal/adapter/signature"
)

var sigCmd = &cobra.Command{
	Use:   "sig <line>",
	Short: "Parse one docstring signature line",
	Long: `Parse a docstring signature line and print its structure as JSON.
Exits with an error when the line is not a valid signature.

Examples:
  apidoc sig "setName(self, name: str)"
  apidoc sig "qgis.core::QgsMapLayer.fromId(id: str) -> QgsMapLayer"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSig,
}

func init() {
	rootCmd.AddCommand(sigCmd)
}

func runSig(cmd *cobra.Command, args []string) error {
	line := strings.Join(args, " ")

	sig, ok := signature.New().Parse(line)
	if !ok {
		return fmt.Errorf("not a valid signature: %q", line)
	}
	return writeJSON(cmd.OutOrStdout(), sig)
}
