// Package store wraps the database handle shared by the services. SQL lives
// next to the service that owns it.
package store

import "github.com/jmoiron/sqlx"

type Store struct {
	DB *sqlx.DB
}

func New(db *sqlx.DB) *Store { return &Store{DB: db} }
