package main

// @title           Community Backend API
// @version         1.0
// @description     Billing webhook reconciliation, notifications, leaderboards, chat and admin dashboards.

// @host      localhost:8888
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/community/internal/app"
	"github.com/fatflowers/community/internal/platform/db"
	"github.com/fatflowers/community/internal/platform/permission"
	"github.com/fatflowers/community/pkg/config"
	"github.com/fatflowers/community/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "community",
		Short:        "Community platform backend",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newPolicyCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a := fx.New(app.Module)
	startCtx, cancel := context.WithTimeout(ctx, app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		// Logging might not be ready; fallback to zap example
		zap.NewExample().Sugar().Errorf("failed to start app: %v", err)
		return err
	}

	// Block until signal
	<-a.Done()

	stopCtx, cancel2 := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer cancel2()
	if err := a.Stop(stopCtx); err != nil {
		zap.NewExample().Sugar().Errorf("failed to stop app: %v", err)
		return err
	}
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and seed default permission policies",
		RunE: func(*cobra.Command, []string) error {
			return migrate()
		},
	}
}

// openDB connects with the process config; close releases the pool and logger.
func openDB() (gdb *gorm.DB, l *zap.SugaredLogger, closeFn func(), err error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, nil, err
	}
	l, err = logger.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	gdb, err = db.NewDB(l, cfg)
	if err != nil {
		_ = l.Sync()
		return nil, nil, nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		_ = l.Sync()
		return nil, nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return gdb, l, func() {
		_ = sqlDB.Close()
		_ = l.Sync()
	}, nil
}

func migrate() error {
	gdb, l, closeFn, err := openDB()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := db.AutoMigrate(l, gdb); err != nil {
		return err
	}
	if _, err := permission.NewEnforcer(gdb, l); err != nil {
		return err
	}
	l.Infow("migration finished")
	return nil
}

func newPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Grant or revoke admin permissions for a role",
	}
	for _, grant := range []bool{true, false} {
		use, short := "grant", "Allow a role to perform an action on a resource"
		if !grant {
			use, short = "revoke", "Remove a previously granted permission"
		}
		cmd.AddCommand(&cobra.Command{
			Use:   use + " <role> <resource> <action>",
			Short: short,
			Args:  cobra.ExactArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				gdb, l, closeFn, err := openDB()
				if err != nil {
					return err
				}
				defer closeFn()
				e, err := permission.NewEnforcer(gdb, l)
				if err != nil {
					return err
				}
				return changePolicy(e, grant, args[0], args[1], args[2])
			},
		})
	}
	return cmd
}

type policyEditor interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
}

func changePolicy(e policyEditor, grant bool, role, resource, action string) error {
	if err := permission.Validate(resource, action); err != nil {
		return err
	}
	if grant {
		return e.AddPolicy(role, resource, action)
	}
	return e.RemovePolicy(role, resource, action)
}
