package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/cadsense/internal/profile"
	"github.com/hrygo/cadsense/internal/version"
	"github.com/hrygo/cadsense/server"
	"github.com/hrygo/cadsense/store"
	"github.com/hrygo/cadsense/store/db"
)

var (
	rootCmd = &cobra.Command{
		Use:   "cadsense",
		Short: `Turn plain-language descriptions into AutoCAD drawing plans and Design Automation work items.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isRunningAsSystemdService() {
				// A missing .env file is fine.
				_ = godotenv.Load()
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			storeInstance, err := openStore(ctx, instanceProfile)
			if err != nil {
				return err
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				return err
			}

			c := make(chan os.Signal, 1)
			// Trigger graceful shutdown on SIGINT or SIGTERM.
			signal.Notify(c, terminationSignals...)

			if err := s.Start(ctx); err != nil {
				return err
			}

			printGreetings(instanceProfile, s.Addr())

			go func() {
				<-c
				s.Shutdown(ctx)
				cancel()
			}()

			// Wait for CTRL-C.
			<-ctx.Done()
			return nil
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 28090)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28090, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory for the sqlite run history")
	rootCmd.PersistentFlags().String("driver", "", "run history driver (sqlite, postgres); empty disables history")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")

	for _, key := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("cadsense")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	rootCmd.AddCommand(planCmd, historyCmd, versionCmd)
}

// loadProfile builds the profile from flags, then the environment.
func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version.GetCurrentVersion(viper.GetString("mode")),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	return instanceProfile, nil
}

// openStore returns nil when run history is disabled.
func openStore(ctx context.Context, p *profile.Profile) (*store.Store, error) {
	if !p.IsStoreEnabled() {
		return nil, nil
	}
	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		slog.Error("failed to create db driver", "error", err)
		return nil, err
	}
	storeInstance := store.New(dbDriver, p)
	if err := storeInstance.Migrate(ctx); err != nil {
		_ = storeInstance.Close()
		slog.Error("failed to migrate", "error", err)
		return nil, err
	}
	return storeInstance, nil
}

func printGreetings(profile *profile.Profile, addr string) {
	fmt.Printf("CADSense %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Run history driver: %s\n", orNone(profile.Driver))
	fmt.Printf("LLM planning: %t (%s / %s)\n", profile.IsAIEnabled(), profile.ALLMProvider, profile.ALLMModel)
	fmt.Printf("Autodesk sending: %t\n", profile.IsSendEnabled())
	fmt.Printf("Mode: %s\n", profile.Mode)
	fmt.Printf("Server running on %s\n", addr)
	fmt.Printf("Access CADSense at: http://%s\n", addr)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// isRunningAsSystemdService detects if the process is running under systemd.
func isRunningAsSystemdService() bool {
	return os.Getenv("INVOCATION_ID") != "" || os.Getenv("WATCHDOG_USEC") != ""
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
