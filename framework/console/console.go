// Package console holds the command-line interface of the bean container.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-beans/framework/app"
	"github.com/km-arc/go-beans/framework/providers"
)

// Bootstrap returns the application the commands operate on. Programs
// embedding the console set it to register their own providers.
type Bootstrap func(envFiles ...string) (*app.Application, error)

// NewRootCommand builds the command tree around boot.
func NewRootCommand(boot Bootstrap) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "beans",
		Short:         "Inspect and serve a bean container",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	load := func() (*app.Application, error) {
		a, err := boot(envFiles...)
		if err != nil {
			return nil, err
		}
		if err := a.Boot(); err != nil {
			return nil, err
		}
		return a, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the inspection API on APP_PORT",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := load()
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return a.Run(ctx)
			},
		},
		&cobra.Command{
			Use:   "get NAME [ARG...]",
			Short: "Resolve a bean and print its type and JSON value",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := load()
				if err != nil {
					return err
				}
				defer a.Close()

				ctorArgs := make([]any, 0, len(args)-1)
				for _, s := range args[1:] {
					ctorArgs = append(ctorArgs, s)
				}
				inst, err := a.Factory().GetBean(args[0], ctorArgs...)
				if err != nil {
					return err
				}
				out := map[string]any{
					"name": args[0],
					"type": fmt.Sprintf("%T", inst),
				}
				if value, err := json.Marshal(inst); err == nil {
					out["value"] = json.RawMessage(value)
				} else {
					out["value_error"] = err.Error()
				}
				return printJSON(cmd.OutOrStdout(), out)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List bean definitions and resolved singletons",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := load()
				if err != nil {
					return err
				}
				defer a.Close()
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"container":    a.Factory().ID(),
					"definitions":  a.Definitions.Names(),
					"singletons":   a.Factory().SingletonNames(),
					"constructors": a.Constructors.Types(),
				})
			},
		},
	)
	return root
}

// Execute runs the command line with the default application bootstrap.
func Execute(providerList ...providers.BeanProvider) int {
	boot := func(envFiles ...string) (*app.Application, error) {
		a, err := app.New(envFiles...)
		if err != nil {
			return nil, err
		}
		for _, p := range providerList {
			if err := a.Register(p); err != nil {
				return nil, err
			}
		}
		return a, nil
	}
	if err := NewRootCommand(boot).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
