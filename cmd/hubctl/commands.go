package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/iothub-client/internal/app"
	"github.com/samvad-hq/iothub-client/internal/version"
	"github.com/samvad-hq/iothub-client/pkg/payload"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "IoT Hub device-management client",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newSendCmd(), newTwinCmd(), newDevicesCmd(), newVersionCmd())
	return root
}

// bodyFlags resolves a payload from --file, --json or a positional argument.
type bodyFlags struct {
	file   string
	inline string
}

func (b *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&b.file, "file", "f", "", "read the payload from a YAML or JSON file")
	cmd.Flags().StringVar(&b.inline, "json", "", "inline JSON payload")
}

func (b *bodyFlags) resolve(args []string) (any, error) {
	switch {
	case b.file != "" && b.inline != "":
		return nil, errors.New("use either --file or --json, not both")
	case b.file != "":
		return payload.Load(b.file)
	case b.inline != "":
		return payload.ParseInline(b.inline), nil
	case len(args) > 0:
		return payload.ParseInline(args[0]), nil
	default:
		return nil, errors.New("a payload is required (argument, --json or --file)")
	}
}

func newSendCmd() *cobra.Command {
	var body bodyFlags
	cmd := &cobra.Command{
		Use:   "send <device-id> [message]",
		Short: "Send a device-to-cloud message",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := body.resolve(args[1:])
			if err != nil {
				return err
			}
			return withConsole(func(ctx context.Context, c *app.Console) error {
				return c.SendMessage(ctx, args[0], msg)
			})
		},
	}
	body.register(cmd)
	return cmd
}

func newTwinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twin",
		Short: "Read and modify device twins",
	}

	get := &cobra.Command{
		Use:   "get <device-id>",
		Short: "Fetch a device twin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(func(ctx context.Context, c *app.Console) error {
				return c.GetTwin(ctx, args[0])
			})
		},
	}

	last := &cobra.Command{
		Use:   "last <device-id>",
		Short: "Show the last twin snapshot stored locally",
		Long: `Show the twin saved by the most recent "twin get" for a device.

Snapshots are only recorded when STORAGE_TYPE=bbolt (see BBOLT_PATH). This
command reads the local store and does not need HUB_NAME or SAS_TOKEN.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSnapshots(func(c *app.Console) error {
				return c.LastTwin(args[0])
			})
		},
	}

	cmd.AddCommand(get, last,
		newTwinWriteCmd("update", "Patch tags and desired properties", (*app.Console).UpdateTwin),
		newTwinWriteCmd("replace", "Replace tags and desired properties", (*app.Console).ReplaceTwin),
	)
	return cmd
}

type twinWriter func(c *app.Console, ctx context.Context, deviceID string, properties any) error

func newTwinWriteCmd(name, short string, write twinWriter) *cobra.Command {
	var body bodyFlags
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <device-id> [properties]", name),
		Short: short,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := body.resolve(args[1:])
			if err != nil {
				return err
			}
			return withConsole(func(ctx context.Context, c *app.Console) error {
				return write(c, ctx, args[0], props)
			})
		},
	}
	body.register(cmd)
	return cmd
}

func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage the device identity registry",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List registered devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(func(ctx context.Context, c *app.Console) error {
				return c.ListDevices(ctx)
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <device-id>",
		Short: "Show one device identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(func(ctx context.Context, c *app.Console) error {
				return c.GetDevice(ctx, args[0])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <device-id>",
		Short: "Delete a device identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConsole(func(ctx context.Context, c *app.Console) error {
				return c.DeleteDevice(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hubctl %s (commit: %s)\n", version.Version, version.Commit)
		},
	}
}
