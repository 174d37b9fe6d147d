// Command seed populates the database with demo data. Seeders run
// individually or together within a single transaction.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/JaimeStill/studybuddy/pkg/repository"
)

// Seeder populates one domain's data inside a caller-owned transaction.
type Seeder interface {
	Name() string
	Description() string
	Seed(ctx context.Context, tx *sql.Tx) error
}

var seeders = map[string]Seeder{}

// registerSeeder is called from each seeder's init.
func registerSeeder(s Seeder) {
	seeders[s.Name()] = s
}

func getSeeder(name string) (Seeder, bool) {
	s, ok := seeders[name]
	return s, ok
}

func listSeeders() []Seeder {
	names := slices.Sorted(maps.Keys(seeders))
	result := make([]Seeder, 0, len(names))
	for _, name := range names {
		result = append(result, seeders[name])
	}
	return result
}

func runSeeder(ctx context.Context, db *sql.DB, name string) error {
	seeder, ok := getSeeder(name)
	if !ok {
		return fmt.Errorf("seeder not found: %s", name)
	}
	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		if err := seeder.Seed(ctx, tx); err != nil {
			return struct{}{}, fmt.Errorf("seed %s: %w", name, err)
		}
		return struct{}{}, nil
	})
	return err
}

// runAllSeeders rolls back every seeder if any one fails.
func runAllSeeders(ctx context.Context, db *sql.DB) error {
	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		for _, seeder := range listSeeders() {
			if err := seeder.Seed(ctx, tx); err != nil {
				return struct{}{}, fmt.Errorf("seed %s: %w", seeder.Name(), err)
			}
		}
		return struct{}{}, nil
	})
	return err
}
