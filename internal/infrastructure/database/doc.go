// Package database provides SQLite connectivity for the casos backend.
//
// The database stores user accounts for the login endpoint; case records
// are kept in memory by package caso and never touch SQLite.
//
// Migrations are plain SQL files named
// YYYYMMDD_HHMMSS_description.{up,down}.sql and are read from any fs.FS,
// normally the embedded filesystem exported by package migrations:
//
//	db, err := database.Open(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
package database
