package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ftrs/dos-migration/internal/migration/processor"
	"github.com/ftrs/dos-migration/internal/migration/transformer"
	"github.com/ftrs/dos-migration/internal/migration/validation"
	"github.com/ftrs/dos-migration/internal/platform/db"
	"github.com/ftrs/dos-migration/internal/queuepopulator"
	"github.com/ftrs/dos-migration/internal/referencedata"
	"github.com/ftrs/dos-migration/internal/report"
	"github.com/ftrs/dos-migration/internal/seeding"
	"github.com/ftrs/dos-migration/migrations"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Migrate services from the legacy store",
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Migrate every service",
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath, _ := cmd.Flags().GetString("report")

			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			recorder := &processor.MemoryRecorder{}
			app := env.application(processor.WithRecorder(recorder))
			run, err := app.HandleFullSync(ctx)
			if run != nil {
				if werr := printJSON(cmd.OutOrStdout(), run); werr != nil {
					return werr
				}
			}
			if reportPath != "" && run != nil {
				info := report.Run{ID: run.ID.String(), Env: run.Env, Workspace: run.Workspace, GeneratedAt: time.Now()}
				snap := app.Processor().Metrics().Snapshot()
				if werr := report.WriteWorkbook(reportPath, info, snap, recorder.Outcomes()); werr != nil {
					return werr
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", reportPath)
			}
			return err
		},
	}
	allCmd.Flags().String("report", "", "Write a run workbook (.xlsx) to this path")
	cmd.AddCommand(allCmd)

	serviceCmd := &cobra.Command{
		Use:   "service",
		Short: "Migrate a single service",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("id")

			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			snap, err := env.application().HandleService(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}
	serviceCmd.Flags().Int64("id", 0, "Legacy service id")
	_ = serviceCmd.MarkFlagRequired("id")
	cmd.AddCommand(serviceCmd)

	return cmd
}

// preview is the YAML document printed by transform.
type preview struct {
	Output  *transformer.Output `json:"output,omitempty"`
	Issues  []validation.Issue  `json:"issues,omitempty"`
	Skipped string              `json:"skipped,omitempty"`
}

func transformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Print the transformed form of a service without saving it",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("id")

			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			out, result, reason, err := env.application().Processor().Preview(ctx, id)
			if err != nil {
				return err
			}
			p := preview{Output: out, Skipped: reason}
			if result != nil {
				p.Issues = result.Issues
			}
			return printYAML(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().Int64("id", 0, "Legacy service id")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func referenceDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference-data",
		Short: "Migrate reference data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "load",
		Short: "Load triage codes from the legacy store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			sum, err := referencedata.NewLoader(env.log, env.legacy, env.triageCodes()).Handle(ctx, referencedata.TypeTriageCode)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sum)
		},
	})
	return cmd
}

func queueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Enqueue migration events",
	}

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Send a DMS insert event for every matching service",
		RunE: func(cmd *cobra.Command, args []string) error {
			typeIDs, _ := cmd.Flags().GetInt64Slice("type-id")
			statusIDs, _ := cmd.Flags().GetInt64Slice("status-id")

			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			if env.cfg.QueueURL == "" {
				return fmt.Errorf("QUEUE_URL is required")
			}
			sender := queuepopulator.NewHTTPSender(env.cfg.QueueURL, []byte(env.cfg.AuthSigningKey))
			p := queuepopulator.New(env.log, env.legacy, sender, queuepopulator.Config{
				Workers:   env.cfg.QueueWorkers,
				RateLimit: env.cfg.QueueRateLimit,
				BatchSize: env.cfg.QueueBatchSize,
			})
			res, err := p.Populate(ctx, queuepopulator.Filter{TypeIDs: typeIDs, StatusIDs: statusIDs})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	populateCmd.Flags().Int64Slice("type-id", nil, "Only services of these type ids")
	populateCmd.Flags().Int64Slice("status-id", nil, "Only services with these status ids")
	cmd.AddCommand(populateCmd)

	return cmd
}

func seeder(ctx context.Context, env *env) (*seeding.Seeder, error) {
	objects, err := env.objects()
	if err != nil {
		return nil, err
	}
	bucket := env.cfg.S3Bucket
	if err := objects.EnsureBucket(ctx, bucket); err != nil {
		return nil, err
	}
	return seeding.New(env.log, env.docs, objects, bucket), nil
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export the target tables to the migration store bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			s, err := seeder(ctx, env)
			if err != nil {
				return err
			}
			manifest, err := s.Export(ctx, env.tables)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), manifest)
		},
	}
}

func restoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the latest export into another environment's tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			targetEnv, _ := cmd.Flags().GetString("env")
			workspace, _ := cmd.Flags().GetString("workspace")

			ctx := cmd.Context()
			env, err := connect(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			s, err := seeder(ctx, env)
			if err != nil {
				return err
			}
			res, err := s.Restore(ctx, seeding.Tables(env.cfg.TablePrefix, targetEnv, workspace))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().String("env", "", "Environment whose tables receive the documents")
	cmd.Flags().String("workspace", "", "Workspace suffix of the receiving tables")
	_ = cmd.MarkFlagRequired("env")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run target database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if schema == "" {
				schema = cfg.TargetSchema
			}

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.Pool(cfg.TargetDatabaseURL))
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, migrations.FS)
			fmt.Fprintf(cmd.OutOrStdout(), "Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "", "Target schema (defaults to TARGET_SCHEMA)")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if schema == "" {
				schema = cfg.TargetSchema
			}

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, cfg.Pool(cfg.TargetDatabaseURL))
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
			fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.Modified {
						status = "modified"
					}
					appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("schema", "", "Target schema (defaults to TARGET_SCHEMA)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML renders v with its JSON field names.
func printYAML(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
