// Package config loads catalog-sync settings from the environment.
//
// Every key is bound from a struct field's mapstructure tag, with the field's
// default tag as fallback, so SYNC_BATCH_SIZE maps to Config.Sync.BatchSize.
// A .env file in the working directory overrides the process environment.
// List values such as SYNC_ROOTS are comma separated.
//
// LoadConfig rejects an unknown storage provider and sync settings the
// pipeline cannot run with, so commands fail before touching the database.
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	_ = cfg.Sync.Roots
package config
