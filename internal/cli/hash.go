package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// generateHash is a seam so tests can exercise the command without paying
// full bcrypt cost.
var generateHash = func(password string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func cmdHash() *cobra.Command {
	var cost int

	c := &cobra.Command{
		Use:   "hash <password>",
		Short: "Print a bcrypt hash for use in the accounts config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := generateHash(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	c.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost parameter")
	return c
}
