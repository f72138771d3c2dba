// cmd/cli/main.go
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"aridcore/internal/config"
	"aridcore/internal/logging"
	v "aridcore/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	file    string
	section string
}

func (o *options) open(create bool) (*config.Store, error) {
	log := logging.Nop()
	if create {
		return config.Open(o.file, o.section, log)
	}
	s, err := config.New(o.file, o.section, log)
	if err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	settings, err := config.LoadSettings()
	if err == nil {
		opts.file, opts.section = settings.ConfigFile, settings.ConfigSection
	} else {
		opts.file, opts.section = "config.json", "bot"
	}

	root := &cobra.Command{
		Use:           "aridcore-config",
		Short:         "Inspect and edit the " + v.AppName + " config document",
		Version:       v.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.file, "config", "c", opts.file, "path of the JSON config document")
	root.PersistentFlags().StringVar(&opts.section, "section", opts.section, "name of the settings object")

	root.AddCommand(
		newInitCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newShowCmd(opts),
		newCheckCmd(opts),
	)
	return root
}

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the document with default values if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.New(opts.file, opts.section, logging.Nop())
			if err != nil {
				return err
			}
			created, err := s.CreateIfAbsent()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s with defaults.\n", s.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists.\n", s.Path())
			}
			return nil
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			value, ok := s.Get(args[0]).Get()
			if !ok {
				return fmt.Errorf("%q is not set in %s", args[0], s.Path())
			}
			fmt.Fprintln(cmd.OutOrStdout(), config.Redact(args[0], value))
			return nil
		},
	}
}

func newSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a value, creating the document if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(true)
			if err != nil {
				return err
			}
			if err := s.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], config.Redact(args[0], args[1]))
			return nil
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List every stored entry with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			snap := s.Snapshot()
			key := color.New(color.FgCyan)
			for _, k := range s.Keys() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key.Sprint(k), snap[k])
			}
			return nil
		},
	}
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the bot could start with this document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(false)
			if err != nil {
				return err
			}
			if err := s.CheckUsable(); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "%s is usable.\n", s.Path())
			return nil
		},
	}
}
