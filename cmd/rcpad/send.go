package main

import (
	"context"
	"fmt"
	"time"

	"github.com/frudas24/rcpad/internal/config"
	"github.com/frudas24/rcpad/internal/relay"
	"github.com/frudas24/rcpad/internal/session"
	"github.com/frudas24/rcpad/internal/settings"
	"github.com/spf13/cobra"
)

// newSendCmd builds the one-shot relay command.
func newSendCmd() *cobra.Command {
	var (
		c       session.Controls
		target  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "send one control snapshot to the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				st, err := settings.Load(cfg.SettingsPath)
				if err != nil {
					return err
				}
				target = st.Target()
			}
			sess := session.New(settings.Defaults())
			snapshot := sess.SetControls(c)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			reply, err := relay.NewClient(timeout).Send(ctx, target, snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", target, reply)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&c.Rotation, "rotation", 0, "rotation axis (-100..100)")
	f.IntVar(&c.Movement, "movement", 0, "movement axis (-100..100)")
	f.IntVar(&c.Speed, "speed", session.DefaultSpeed, "speed (0..100)")
	f.BoolVar(&c.Lights, "lights", false, "lights on")
	f.BoolVar(&c.Horn, "horn", false, "horn on")
	f.BoolVar(&c.Flip, "flip", false, "flip on")
	f.BoolVar(&c.Turbo, "turbo", false, "turbo on")
	f.StringVar(&target, "target", "", "device URL (default from saved settings)")
	f.DurationVar(&timeout, "timeout", relay.DefaultTimeout, "request timeout")
	return cmd
}
