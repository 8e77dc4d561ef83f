package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jzy/redis-data/v1/redis"
)

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value stored under KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			value, err := s.client.GetString(s.ctx, args[0])
			if redis.IsNilError(err) {
				return fmt.Errorf("key %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newSetCmd(opts *options) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store VALUE under KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.client.Set(s.ctx, args[0], []byte(args[1]), ttl); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Live time, millisecond precision; 0 keeps the key forever")
	return cmd
}

func newSetNXCmd(opts *options) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "setnx KEY VALUE",
		Short: "Store VALUE under KEY only if KEY does not exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.client.SetNXString(s.ctx, args[0], args[1], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Live time, millisecond precision; 0 keeps the key forever")
	return cmd
}

func newDelCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "del KEY...",
		Short: "Delete keys and print how many existed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.client.Del(s.ctx, args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newExistsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exists KEY",
		Short: "Print whether KEY exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.client.Exists(s.ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newTypeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "type KEY",
		Short: "Print the Redis type of KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			t, err := s.client.Type(s.ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func newExpireCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "expire KEY DURATION",
		Short: "Set the live time of KEY, e.g. 1500ms or 1h",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			liveTime, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("invalid duration %q: %w", args[1], err)
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			ok, err := s.client.Expire(s.ctx, args[0], liveTime)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newTTLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ttl KEY",
		Short: "Print the remaining live time of KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			ttl, err := s.client.TTL(s.ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ttl)
			return nil
		},
	}
}

func newSlotCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "slot KEY...",
		Short: "Print the cluster slot of each key after prefixing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.Close()

			for _, key := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", s.client.Keyspace().Key(key), s.client.KeySlot(key))
			}
			return nil
		},
	}
}
