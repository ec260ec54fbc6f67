package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/courtside/internal/cloudsync"
	"github.com/preston-bernstein/courtside/internal/kvstore"
	"github.com/preston-bernstein/courtside/internal/timeutil"
)

const watchStopTimeout = 30 * time.Second

func newSyncCommand(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy local data to and from the cloud",
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Upload every local collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := get().syncer()
			if err != nil {
				return err
			}
			err = s.Push(cmd.Context())
			printStatus(cmd.OutOrStdout(), s.Status())
			return syncError(err)
		},
	}

	pull := &cobra.Command{
		Use:   "pull",
		Short: "Replace local data with the cloud copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			s, err := a.syncer()
			if err != nil {
				return err
			}
			err = s.Pull(cmd.Context())
			printStatus(cmd.OutOrStdout(), s.Status())
			if err == nil {
				cmd.Printf("local: %d players, %d games, %d logs\n", len(a.players.All()), len(a.games.Games()), len(a.games.Logs()))
			}
			return syncError(err)
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show reachability and the last sync time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			s, err := a.syncer()
			if err != nil {
				return err
			}
			cmd.Printf("remote: %s\n", a.cfg.RemoteURL)
			s.CheckConnectivity(cmd.Context())
			printStatus(cmd.OutOrStdout(), s.Status())
			if a.apiKey() == "" {
				cmd.Println("api key: not set")
			}
			return nil
		},
	}

	var interval time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Push on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			s, err := a.syncer()
			if err != nil {
				return err
			}
			every := interval
			if every <= 0 {
				every = a.cfg.AutoSyncInterval
			}
			ctx := cmd.Context()
			loop := cloudsync.NewAutoPusher(s, a.opts.Clock, a.logger, every)
			cmd.Printf("pushing every %s, interrupt to stop\n", every)
			loop.Start(ctx)
			<-ctx.Done()

			stopCtx, cancel := context.WithTimeout(context.Background(), watchStopTimeout)
			defer cancel()
			if err := loop.Stop(stopCtx); err != nil {
				return err
			}
			st := loop.Status()
			cmd.Printf("stopped after %d pushes", st.Cycles)
			if st.LastError != "" {
				cmd.Printf(", last error: %s", st.LastError)
			}
			cmd.Println()
			return nil
		},
	}
	watch.Flags().DurationVar(&interval, "interval", 0, "push interval (default $COURTSIDE_AUTOSYNC_INTERVAL or 5m)")

	cmd.AddCommand(push, pull, status, watch)
	return cmd
}

func newConfigCommand(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage local settings",
	}
	setKey := &cobra.Command{
		Use:   "set-key <key>",
		Short: "Save the API key used for sync",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().kv.Set(kvstore.KeyAPIKey, args[0]); err != nil {
				return err
			}
			cmd.Println("api key saved")
			return nil
		},
	}
	cmd.AddCommand(setKey)
	return cmd
}

func printStatus(w io.Writer, st cloudsync.Status) {
	fmt.Fprintf(w, "status: %s\n", st.State)
	if st.Error != "" {
		fmt.Fprintf(w, "error: %s\n", st.Error)
	}
	if st.LastPush != nil {
		fmt.Fprintf(w, "pushed: %d players, %d games, %d game players, %d logs\n",
			st.LastPush.Players, st.LastPush.Games, st.LastPush.GamePlayers, st.LastPush.Logs)
	}
	fmt.Fprintf(w, "last synced: %s\n", timeutil.FormatMillis(st.LastSynced, time.Local))
}

// syncError keeps an offline result from failing the command.
func syncError(err error) error {
	if errors.Is(err, cloudsync.ErrOffline) {
		return nil
	}
	return err
}
