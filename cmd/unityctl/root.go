package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "unityctl",
		Short:         "Send a single request to the Unity editor over McpUnity",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path (default $UNITYCTL_CONFIG or ./unityctl.toml)")
	flags.StringVar(&ctx.hostFlag, "host", "", "Unity editor host (overrides config and UNITY_HOST)")
	flags.IntVar(&ctx.portFlag, "port", 0, "Unity editor port (overrides config and UNITY_PORT)")
	flags.IntVar(&ctx.timeoutFlag, "timeout", 0, "Request timeout in milliseconds (overrides config)")

	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newMenuCommand(ctx))
	rootCmd.AddCommand(newSelectCommand(ctx))
	rootCmd.AddCommand(newObjectCommand(ctx))
	rootCmd.AddCommand(newLogCommand(ctx))
	rootCmd.AddCommand(newRecompileCommand(ctx))
	rootCmd.AddCommand(newTestCommand(ctx))
	rootCmd.AddCommand(newPackageCommand(ctx))
	rootCmd.AddCommand(newCallCommand(ctx))
	rootCmd.AddCommand(newMethodsCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
