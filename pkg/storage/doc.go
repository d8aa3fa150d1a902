// Package storage provides the session audit log: one persistent record per
// push-channel session with its connect and disconnect times. This is
// lifecycle bookkeeping only; routed event payloads are never persisted.
//
// The Store interface has SQLite (default) and MySQL implementations behind
// a config-keyed factory:
//
//	store, err := storage.New(cfg.Database)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
package storage
