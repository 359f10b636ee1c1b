package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"scholarhub/internal/adapter/repo"
	"scholarhub/internal/domain"
	"scholarhub/internal/infra"
	"scholarhub/internal/notify"
	"scholarhub/internal/sqlinline"
	"scholarhub/internal/workflow"
)

type runtime struct {
	cfg      *infra.Config
	logger   infra.Logger
	runner   *infra.SQLRunner
	txRunner *infra.TxRunner
	close    func()
}

func open(ctx context.Context) (*runtime, error) {
	_ = godotenv.Load()
	cfg, err := infra.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := infra.NewLogger(cfg.AppEnv)
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &runtime{
		cfg:      cfg,
		logger:   logger,
		runner:   infra.NewSQLRunner(dbpool, logger),
		txRunner: infra.NewTxRunner(dbpool, logger),
		close:    dbpool.Close,
	}, nil
}

func newBootstrapAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || len(password) < 8 {
				return fmt.Errorf("--email and --password (8+ chars) are required")
			}
			ctx := cmd.Context()
			rt, err := open(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := &domain.User{
				ID:           uuid.NewString(),
				Email:        email,
				PasswordHash: string(hash),
				Role:         domain.UserRoleAdmin,
				Active:       true,
				Verified:     true,
			}
			err = rt.txRunner.Atomic(ctx, func(ctx context.Context, exec infra.SQLExecutor) error {
				st := repo.NewStore(exec)
				if err := st.Users().Create(ctx, user); err != nil {
					return err
				}
				_, err := exec.Exec(ctx, sqlinline.QInsertAdminProfile, user.ID, `["all"]`)
				return err
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %s\n", email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	return cmd
}

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Repair counter drift and expire past-deadline scholarships once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := open(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			report, err := workflow.NewReconciler(rt.txRunner, rt.logger).Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"repaired %d scholarship(s), %d donor total(s), expired %d scholarship(s)\n",
				len(report.Scholarships), len(report.Donors), len(report.Expired))
			return nil
		},
	}
}

func newOutboxDrainCmd() *cobra.Command {
	var batch int
	cmd := &cobra.Command{
		Use:   "outbox-drain",
		Short: "Send pending outbox emails once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := open(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			var mailer notify.Mailer
			if rt.cfg.AppEnv == "development" {
				mailer = notify.LogMailer{Logger: rt.logger}
			} else {
				mailer = notify.NewSMTPMailer(rt.cfg.SMTPAddr, rt.cfg.EmailFrom, rt.cfg.SMTPUser, rt.cfg.SMTPPassword)
			}
			dispatcher := &notify.Dispatcher{
				Store:  repo.NewStore(rt.runner),
				Mailer: mailer,
				Logger: rt.logger,
				Batch:  batch,
			}
			sent, err := dispatcher.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d email(s)\n", sent)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 50, "maximum emails to send")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "scholarctl",
		Short:         "Operational tooling for the scholarship platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBootstrapAdminCmd(), newReconcileCmd(), newOutboxDrainCmd())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
