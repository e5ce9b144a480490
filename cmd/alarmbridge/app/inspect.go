package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/autopeer-io/alarmbridge/cmd/alarmbridge/app/options"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/internal/bridge/platform"
	"github.com/autopeer-io/alarmbridge/internal/bridge/refcache"
)

const targetEndpoints = "endpoints"

// inspectTimeout bounds the whole inspect run.
const inspectTimeout = 2 * time.Minute

func inspectTargets() []string {
	targets := make([]string, 0, len(model.Datasets)+1)
	for _, ds := range model.Datasets {
		targets = append(targets, string(ds))
	}
	return append(targets, targetEndpoints)
}

func newInspectCommand(opts *options.AlarmBridgeOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "inspect <" + strings.Join(inspectTargets(), "|") + ">",
		Short:     "Sign in and print a reference dataset or the assigned stream endpoints",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: inspectTargets(),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), inspectTimeout)
			defer cancel()

			session := platform.NewSession(opts.PlatformOptions)
			if err := session.SignIn(ctx); err != nil {
				return fmt.Errorf("platform sign-in failed: %w", err)
			}

			if args[0] == targetEndpoints {
				endpoints, err := session.DiscoverEndpoints(ctx, opts.StreamOptions.UsePlaintext)
				if err != nil {
					return err
				}
				printEndpoints(cmd.OutOrStdout(), endpoints)
				return nil
			}

			ds, _ := model.ParseDataset(args[0])
			refs, err := session.RefreshReference(ctx, ds)
			if err != nil {
				return err
			}
			printReferences(cmd.OutOrStdout(), ds, refs)
			return nil
		},
	}
}

func printEndpoints(w io.Writer, endpoints []model.Endpoint) {
	table := uitable.New()
	table.AddRow("SCHEME", "HOST", "PORT", "URL")
	for _, ep := range endpoints {
		table.AddRow(ep.Scheme, ep.Host, ep.Port, ep.URL())
	}
	fmt.Fprintln(w, table)
}

func printReferences(w io.Writer, ds model.Dataset, refs []model.Reference) {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("KEY", "NAME")
	for _, ref := range refs {
		name := ref.Name
		if ds == model.DatasetAlarmTypes {
			name = refcache.RenameAlarm(name)
		}
		table.AddRow(ref.Key, name)
	}
	fmt.Fprintln(w, table)
	fmt.Fprintf(w, "\n%d %s\n", len(refs), ds)
}
