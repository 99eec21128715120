// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ezrec/fv6502/config"
	"github.com/ezrec/fv6502/flow"
	"github.com/ezrec/fv6502/translate"
)

const version = "1.0.0"

var t = translate.From

func main() {
	var configPath string
	var jobs int
	var verbose bool
	var force bool

	loadFlow := func() (fl *flow.Flow, err error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return
		}
		if jobs > 0 {
			cfg.Jobs = jobs
		}
		if verbose {
			cfg.Verbose = true
		}
		fl, err = flow.New(cfg)
		if err != nil {
			return
		}
		fl.Force = force
		return
	}

	root := &cobra.Command{
		Use:           "fv6502",
		Short:         "fv6502 - formal verification driver for the 6502-style core",
		Long:          "fv6502 drives per-instruction bounded model checking:\nit generates il artifacts from formal_<name>.star scripts, wraps them\nin sby job files, and runs the external checker, reporting one\npass/fail line per instruction.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "fv6502.yml", "configuration file")
	root.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "parallel verification jobs")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	run := &cobra.Command{
		Use:   "run [name...]",
		Short: "Verify all discovered instructions, or only the named ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			fl, err := loadFlow()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			totals, err := fl.Run(ctx, args)
			if err != nil {
				return err
			}
			if totals.Fail != 0 || totals.Inconsistent != 0 {
				return fmt.Errorf("%s", t("%v of %v instruction(s) did not verify",
					totals.Fail+totals.Inconsistent, totals.Pass+totals.Fail+totals.Inconsistent))
			}
			return nil
		},
	}
	run.Flags().BoolVarP(&force, "force", "f", false, "rebuild everything, ignore staleness")

	gen := &cobra.Command{
		Use:   "gen <name>",
		Short: "Emit the il for one instruction to standard output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fl, err := loadFlow()
			if err != nil {
				return err
			}
			il, err := fl.Generator.Generate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(il)
			return err
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the discovered instruction names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fl, err := loadFlow()
			if err != nil {
				return err
			}
			names, err := fl.Targets()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}

	root.AddCommand(run, gen, list)

	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fv6502: %v\n", err)
		os.Exit(1)
	}
}
