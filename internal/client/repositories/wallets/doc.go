// Package wallets provides the persistence layer for imported viewing keys.
//
// # Overview
//
// A wallet row keeps the classification of a viewing key (kind, network and
// pool capability) in the clear and the key itself sealed with the vault
// master key. SQLRepository serves both SQLite and PostgreSQL: queries are
// written with '?' placeholders and rebound through dbx.Dialect.
//
// Typical Usage
//
//	repo := wallets.NewSQLRepository(db, dbx.SQLite)
//	_ = repo.Create(ctx, w)
//	w, err := repo.GetByName(ctx, "cold")
//	if errors.Is(err, common.ErrorNotFound) { ... }
package wallets
