package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"reactants/internal/app"
	"reactants/internal/devtools"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := app.DefaultConfig()
	envErr := app.LoadEnv(&cfg)

	prepare := func() error {
		if envErr != nil {
			return envErr
		}
		return cfg.Validate()
	}

	root := &cobra.Command{
		Use:           "reactants",
		Short:         "Reactants, products and leftovers in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := prepare(); err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(cmd.Context())
		},
	}
	bindFlags(root.PersistentFlags(), &cfg)

	root.AddCommand(&cobra.Command{
		Use:   "script <file.yaml>",
		Short: "Replay an intent script without the terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(); err != nil {
				return err
			}
			script, err := devtools.LoadScript(args[0])
			if err != nil {
				return err
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			reports, runErr := a.RunScript(cmd.Context(), script)
			for _, r := range reports {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			return runErr
		},
	})
	return root
}

func bindFlags(fs *pflag.FlagSet, cfg *app.Config) {
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "write JSON logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.PacksDir, "packs", cfg.PacksDir, "directory of level packs")
	fs.StringVar(&cfg.PackID, "pack", cfg.PackID, "pack id to play (default: first pack found, else builtin-core)")
	fs.StringVar(&cfg.StateDB, "state-db", cfg.StateDB, "sqlite file for the session ledger (default: in memory)")
	fs.StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "ui style: modern_arcade, cozy_clean, retro_terminal")
	fs.StringVar(&cfg.UI.MotionLevel, "motion", cfg.UI.MotionLevel, "motion level: full, reduced, off")
	fs.BoolVar(&cfg.ASCIIOnly, "ascii", cfg.ASCIIOnly, "draw with ASCII only")
	fs.BoolVar(&cfg.DebugLayout, "debug-layout", cfg.DebugLayout, "verbose ui logging")
	fs.BoolVar(&cfg.Gameplay.Timer, "timer", cfg.Gameplay.Timer, "time each level")
	fs.StringVar(&cfg.Gameplay.Visibility, "visibility", cfg.Gameplay.Visibility, "force challenge visibility: both, molecules, numbers")
	fs.BoolVar(&cfg.Gameplay.AutoPlayAll, "autoplay-all", cfg.Gameplay.AutoPlayAll, "pre-solve every challenge (debug)")
	fs.BoolVar(&cfg.Gameplay.ForceReward, "force-reward", cfg.Gameplay.ForceReward, "make every finished level reward eligible (debug)")
	fs.StringVar(&cfg.DemoScenario, "demo", cfg.DemoScenario, "start in a demo scenario: "+strings.Join(devtools.NewManager().Names(), ", "))
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "serve the dev http endpoints")
	fs.StringVar(&cfg.DevHTTP, "dev-http", cfg.DevHTTP, "dev http listen address")
}
