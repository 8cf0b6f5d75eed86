package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tarjousbot/pkg/secret"
)

// setWebhookCmd stores the webhook URL in the system keychain so that
// it never sits in a plain file or environment variable.
var setWebhookCmd = &cobra.Command{
	Use:   "set-webhook <url>",
	Short: "Store the webhook URL in the system keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := secret.StoreKeyring(args[0]); err != nil {
			return err
		}
		fmt.Println("Webhook URL stored in keychain")
		return nil
	},
}
