package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	adminauth "github.com/klinika/adminauth"
	"github.com/klinika/adminauth/metrics/export/prometheus"
	"github.com/klinika/adminauth/session"
)

// runtime bundles everything a command invocation needs.
type runtime struct {
	engine *adminauth.Engine
	logger *zap.Logger
	closer func() error
}

func (r *runtime) Close() error {
	_ = r.logger.Sync()
	if r.closer != nil {
		return r.closer()
	}
	return nil
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	flagBaseURL, _ := cmd.Flags().GetString("base-url")
	flagMemory, _ := cmd.Flags().GetBool("memory")
	flagVerbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := loadConfig(flagBaseURL, flagMemory, flagVerbose)
	if err != nil {
		return nil, err
	}

	logger := zap.NewNop()
	if cfg.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	var store session.Store = session.NewMemoryStore()
	closer := func() error { return nil }
	if !cfg.Memory {
		bolt, err := session.OpenBolt(cfg.StatePath)
		if err != nil {
			return nil, fmt.Errorf("open session state %s: %w", cfg.StatePath, err)
		}
		store = bolt
		closer = bolt.Close
	}

	engine, err := adminauth.New().
		WithBaseURL(cfg.BaseURL).
		WithTimeout(cfg.Timeout).
		WithResendCooldown(cfg.ResendCooldown).
		WithDevBypassEnabled(cfg.DevBypass).
		WithStore(store).
		WithLogger(logger).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		_ = closer()
		return nil, err
	}
	return &runtime{engine: engine, logger: logger, closer: closer}, nil
}

func loginCommand() *cobra.Command {
	var flagPhone string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a phone verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runLogin(cmd.Context(), rt, flagPhone, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flagPhone, "phone", "", "phone number to sign in with (prompted when omitted)")
	return cmd
}

func runLogin(ctx context.Context, rt *runtime, phone string, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	if snap := rt.engine.CheckSession(ctx); snap.Authenticated() {
		fmt.Fprintf(out, "Already signed in as %s. Run `klinika-admin logout` first.\n", snap.User.Username)
		return nil
	}

	if phone == "" {
		fmt.Fprint(out, "Phone number: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read phone: %w", err)
		}
		phone = strings.TrimSpace(line)
	}

	flow := rt.engine.NewSignInFlow()
	if err := flow.RequestCode(ctx, phone); err != nil {
		return fmt.Errorf("request code: %w", err)
	}

	for {
		if flow.State() == adminauth.SignInVerified {
			break
		}
		fmt.Fprint(out, "Verification code (or `r` to resend): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read code: %w", err)
		}
		input := strings.TrimSpace(line)

		if input == "r" {
			if err := flow.RequestCode(ctx, flow.Phone()); err != nil {
				if errors.Is(err, adminauth.ErrResendCooldown) {
					fmt.Fprintf(out, "Please wait %s before requesting another code.\n", flow.ResendIn().Round(time.Second))
					continue
				}
				return fmt.Errorf("resend code: %w", err)
			}
			fmt.Fprintln(out, "Code re-sent.")
			continue
		}

		if err := flow.VerifyCode(ctx, input); err != nil {
			fmt.Fprintf(out, "Verification failed: %v\n", err)
			continue
		}
	}

	snap := rt.engine.Snapshot()
	if !snap.Authenticated() {
		return errors.New("code accepted but the session did not authenticate")
	}
	fmt.Fprintf(out, "Signed in as %s (%s).\n", snap.User.Username, strings.Join(snap.User.Roles, ", "))
	return nil
}

func logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.engine.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func whoamiCommand() *cobra.Command {
	var flagJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			snap := rt.engine.CheckSession(cmd.Context())
			out := cmd.OutOrStdout()
			if !snap.Authenticated() {
				fmt.Fprintln(out, "Not signed in.")
				return nil
			}
			if flagJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap.User)
			}
			fmt.Fprintf(out, "User:   %s\n", snap.User.Username)
			fmt.Fprintf(out, "ID:     %s\n", snap.User.ID)
			fmt.Fprintf(out, "Phone:  %s\n", snap.User.Phone)
			fmt.Fprintf(out, "Roles:  %s\n", strings.Join(snap.User.Roles, ", "))
			fmt.Fprintf(out, "Status: %s\n", snap.User.Status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagJSON, "json", false, "print the profile as JSON")
	return cmd
}

func metricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Run a session check and print counters in Prometheus text format",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.engine.CheckSession(cmd.Context())
			exporter := prometheus.NewPrometheusExporter(rt.engine)
			fmt.Fprint(cmd.OutOrStdout(), exporter.Render())
			return nil
		},
	}
}
