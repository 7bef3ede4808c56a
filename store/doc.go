// Package store opens the relational database that backs the user
// resource when persistence is enabled.
//
// Connections go through GORM with the SQLite driver. Open retries with a
// linear backoff, applies the pool settings and routes GORM's query log
// through the service logger.
//
//	db, err := store.Open(ctx, cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.AutoMigrate(&user.Record{}); err != nil {
//	    return err
//	}
package store
