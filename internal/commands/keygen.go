package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"outlay/internal/crypto"
)

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a fresh note encryption key",
		Long:  "Generate a fresh note encryption key. Set OUTLAY_KEY to the printed value and OUTLAY_ENCRYPT_NOTES=1 to encrypt the notes of new expenses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypto.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
