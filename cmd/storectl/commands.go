package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/GTDGit/gtd_storefront/internal/clock"
	"github.com/GTDGit/gtd_storefront/internal/config"
	"github.com/GTDGit/gtd_storefront/internal/database"
	"github.com/GTDGit/gtd_storefront/internal/models"
	"github.com/GTDGit/gtd_storefront/internal/repository"
	"github.com/GTDGit/gtd_storefront/internal/service"
)

// connect opens the database described by the environment.
var connect = func() (*sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Connect(&cfg.DB)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "storectl",
		Short:         "Storefront maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("migrations", database.DefaultMigrationsURL, "migration source URL")

	root.AddCommand(newMigrateCmd(), newCreateAdminCmd(), newSeedCouponCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("migrations")
			return withDB(func(db *sqlx.DB) error {
				if err := database.MigrateUp(db.DB, source); err != nil {
					return err
				}
				log.Info().Msg("migrations applied")
				return nil
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return errors.New("--steps must be at least 1")
			}
			source, _ := cmd.Flags().GetString("migrations")
			return withDB(func(db *sqlx.DB) error {
				if err := database.MigrateDown(db.DB, source, steps); err != nil {
					return err
				}
				log.Info().Int("steps", steps).Msg("migrations rolled back")
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("migrations")
			return withDB(func(db *sqlx.DB) error {
				v, dirty, err := database.MigrationVersion(db.DB, source)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty=%t)\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func newCreateAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			return withDB(func(db *sqlx.DB) error {
				auth := service.NewAdminAuthService(repository.NewAdminUserRepository(db), "", 0)
				user, err := auth.CreateAdmin(cmd.Context(), email, password, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", user.ID, user.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 8 characters)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func newSeedCouponCmd() *cobra.Command {
	var (
		code, kind, value, minOrder, maxDiscount string
		limit                                   int
		validFor                                time.Duration
	)
	cmd := &cobra.Command{
		Use:   "seed-coupon",
		Short: "Create a coupon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := couponRequest(code, kind, value, minOrder, maxDiscount, limit, validFor, time.Now().UTC())
			if err != nil {
				return err
			}
			return withDB(func(db *sqlx.DB) error {
				coupons := service.NewCouponService(repository.NewCouponRepository(db), clock.System{})
				c, err := coupons.Create(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created coupon %s valid until %s\n", c.Code, c.ValidUntil.Format(time.RFC3339))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "coupon code")
	cmd.Flags().StringVar(&kind, "type", string(models.DiscountPercentage), "percentage or fixed")
	cmd.Flags().StringVar(&value, "value", "", "discount value")
	cmd.Flags().StringVar(&minOrder, "min-order", "", "minimum order subtotal")
	cmd.Flags().StringVar(&maxDiscount, "max-discount", "", "cap for percentage discounts")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum redemptions, 0 for unlimited")
	cmd.Flags().DurationVar(&validFor, "valid-for", 30*24*time.Hour, "validity window starting now")
	return cmd
}

// couponRequest turns seed-coupon flags into a CouponRequest.
func couponRequest(code, kind, value, minOrder, maxDiscount string, limit int, validFor time.Duration, now time.Time) (*service.CouponRequest, error) {
	if code == "" || value == "" {
		return nil, errors.New("--code and --value are required")
	}
	v, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --value: %w", err)
	}
	req := &service.CouponRequest{
		Code:         code,
		DiscountType: models.DiscountType(kind),
		Value:        v,
		ValidFrom:    &now,
		ValidUntil:   now.Add(validFor),
	}
	if minOrder != "" {
		d, err := decimal.NewFromString(minOrder)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-order: %w", err)
		}
		req.MinOrderAmount = decimal.NewNullDecimal(d)
	}
	if maxDiscount != "" {
		d, err := decimal.NewFromString(maxDiscount)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-discount: %w", err)
		}
		req.MaxDiscount = decimal.NewNullDecimal(d)
	}
	if limit > 0 {
		req.UsageLimit = &limit
	}
	return req, nil
}

func withDB(fn func(db *sqlx.DB) error) error {
	db, err := connect()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

