package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultEndpoint = "http://localhost:8000/api/v1/chat/stream"

// newRootCmd builds the command tree. Flags are bound into v, so every flag
// can also come from a WEDDINGCHAT_* environment variable.
func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "weddingchat",
		Short:         "Chat with the EnchantedDay planning assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	v.SetEnvPrefix("weddingchat")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")

	flags := rootCmd.PersistentFlags()
	flags.StringP("endpoint", "e", defaultEndpoint, "streaming chat endpoint")
	flags.StringP("token", "t", "", "bearer token sent with every request")
	_ = v.BindPFlag("endpoint", flags.Lookup("endpoint"))
	_ = v.BindPFlag("token", flags.Lookup("token"))

	rootCmd.AddCommand(newAskCmd(v), newTokenCmd(v))
	return rootCmd
}
