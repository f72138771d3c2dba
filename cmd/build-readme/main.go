package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aridcore/internal/command"
	"aridcore/internal/config"
	"aridcore/internal/discord"
	"aridcore/internal/docs"
	v "aridcore/internal/version"
)

func main() {
	var (
		tmplPath string
		outPath  string
		prefix   string
	)
	cmd := &cobra.Command{
		Use:          "build-readme",
		Short:        "Write the command reference for the built-in commands",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := command.NewRegistry()
			for _, c := range []command.Command{
				discord.NewHelpCommand(),
				discord.NewPrefixCommand(),
				discord.NewShutdownCommand(),
			} {
				if _, err := reg.Register(c); err != nil {
					return err
				}
			}
			if err := docs.UpdateReadme(tmplPath, outPath, v.AppName, reg, prefix); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated with %d commands\n", outPath, reg.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&tmplPath, "template", "", "template file (built-in template when empty)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "COMMANDS.md", "output file")
	cmd.Flags().StringVar(&prefix, "prefix", config.DefaultPrefix, "prefix shown in the reference")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
