// Package pg connects to PostgreSQL through pgx/v5 and applies goose
// migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, migrations.FS, log); err != nil {
//		return err
//	}
//
// Stores in this module depend on the Querier interface rather than on
// *pgxpool.Pool, so a transaction can be passed in its place.
//
// Classify maps driver errors onto the kinds of pkg/errs: missing rows
// become NotFound, unique violations Conflict, constraint and syntax
// violations Invalid, and everything else Transient.
package pg
