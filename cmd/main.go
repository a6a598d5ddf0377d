package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"clinic-operations/cmd/bootstrap"
	"clinic-operations/config"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "clinicd",
		Short:         "Multi-tenant clinic operations backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand(), newUserCommand(), newTokenCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			app, err := bootstrap.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run()
		},
	}
}

func newMigrateCommand() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded SQL migrations",
	}

	run := func(up bool) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			steps := 0
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					return fmt.Errorf("steps must be a non-negative integer, got %q", args[0])
				}
				steps = n
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logrus.StandardLogger()
			m, err := database.NewMigrator(cfg.DB.MigrationURL(), log)
			if err != nil {
				return err
			}
			defer m.Close()

			if up {
				return m.Up(steps)
			}
			return m.Down(steps)
		}
	}

	migrate.AddCommand(
		&cobra.Command{Use: "up [steps]", Short: "Apply migrations (all when steps is omitted)", Args: cobra.MaximumNArgs(1), RunE: run(true)},
		&cobra.Command{Use: "down [steps]", Short: "Roll back migrations (all when steps is omitted)", Args: cobra.MaximumNArgs(1), RunE: run(false)},
	)
	return migrate
}

func newUserCommand() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage principals",
	}

	var email, name, role, clinic string
	create := &cobra.Command{
		Use:   "create",
		Short: "Provision a principal",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &dto.CreateUserRequest{Email: email, FullName: name, Role: role}
			if clinic != "" {
				id, err := uuid.Parse(clinic)
				if err != nil {
					return fmt.Errorf("invalid --clinic: %w", err)
				}
				req.ClinicID = &id
			}

			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				res, err := app.Usecases.Auth.CreateUser(ctx, req)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	create.Flags().StringVar(&email, "email", "", "email address")
	create.Flags().StringVar(&name, "name", "", "full name")
	create.Flags().StringVar(&role, "role", "", "SUPER_ADMIN, ADMIN, STAFF or DOCTOR")
	create.Flags().StringVar(&clinic, "clinic", "", "clinic id (required unless SUPER_ADMIN)")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("role")

	user.AddCommand(create)
	return user
}

func newTokenCommand() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage access tokens",
	}

	var userID string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint a bearer token for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(userID)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}

			return withApp(func(ctx context.Context, app *bootstrap.App) error {
				res, err := app.Usecases.Auth.IssueToken(ctx, id)
				if err != nil {
					return err
				}
				return printJSON(res)
			})
		},
	}
	issue.Flags().StringVar(&userID, "user", "", "user id")
	_ = issue.MarkFlagRequired("user")

	token.AddCommand(issue)
	return token
}

// withApp wires the application for a one-shot operator command.
func withApp(fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(context.Background(), app)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
