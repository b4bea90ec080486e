package system

import (
	"fmt"

	"github.com/spf13/cobra"

	pasetotoken "github.com/Alijeyrad/medbook_backend/pkg/paseto"
)

func NewGenKeyCommand() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate PASETO keys for authentication.paseto",
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := pasetotoken.GenerateKeyStrings(pasetotoken.Mode(mode))
			if err != nil {
				return err
			}

			fmt.Println("authentication:")
			fmt.Println("  paseto:")
			fmt.Printf("    mode: %s\n", ks.Mode)
			if ks.SymmetricHex != "" {
				fmt.Printf("    local_key_hex: %q\n", ks.SymmetricHex)
			}
			if ks.SecretHex != "" {
				fmt.Printf("    secret_key_hex: %q\n", ks.SecretHex)
				fmt.Printf("    public_key_hex: %q\n", ks.PublicHex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "local", "key mode: local or public")

	return cmd
}
