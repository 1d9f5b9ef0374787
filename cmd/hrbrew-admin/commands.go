package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/hrbrew/hrbrew-api/internal/adapters/localauth"
	"github.com/hrbrew/hrbrew-api/internal/bootstrap"
	"github.com/hrbrew/hrbrew-api/internal/devseed"
)

func runMigrate(ctx *commandContext, _ []string) error {
	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()

	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	return bootstrap.RunMigrations(runCtx, db, ctx.Logger)
}

func runDBSeed(ctx *commandContext, _ []string) error {
	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()

	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer closeDB(ctx, db)

	if err = bootstrap.RunMigrations(runCtx, db, ctx.Logger); err != nil {
		return err
	}

	source, err := localSource(ctx)
	if err != nil {
		return err
	}
	return devseed.SeedDB(runCtx, db, source, ctx.Logger)
}

func runLocalUsers(ctx *commandContext, _ []string) error {
	source, err := localSource(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tADMIN\tDEPARTMENT")
	for _, p := range source.Profiles() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", p.ID, p.Username, p.Email, p.IsAdmin, p.Department)
	}
	return w.Flush()
}

func localSource(ctx *commandContext) (*localauth.Source, error) {
	records, err := localauth.ParseRecords(ctx.Config.Auth.Local.Raw)
	if err != nil {
		return nil, err
	}
	return localauth.NewSource(records, ctx.Config.Auth.Identifier), nil
}

func connectDB(ctx *commandContext) (*sql.DB, error) {
	return bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: ctx.Config.Postgres,
		Logger:   ctx.Logger,
	})
}

func closeDB(ctx *commandContext, db *sql.DB) {
	if err := db.Close(); err != nil {
		ctx.Logger.ErrorContext(ctx.Ctx, "close database failed", "error", err)
	}
}
