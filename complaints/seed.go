// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jcodagnone/hotmap/hotspot"
)

// SeedVersion is written to exported seed files.
const SeedVersion = "1.0"

const seedBatchSize = 500

// SeedData represents the JSON seed file format.
type SeedData struct {
	Version     string             `json:"version"`
	LastUpdated time.Time          `json:"last_updated"`
	Complaints  []hotspot.GeoPoint `json:"complaints"`
}

// ReadSeedFile parses a seed file.
func ReadSeedFile(filepath string) (*SeedData, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var seed SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return &seed, nil
}

// AssignIDs gives a random id to every complaint that has none.
func AssignIDs(complaints []hotspot.GeoPoint) {
	for i := range complaints {
		if complaints[i].ID == "" {
			complaints[i].ID = uuid.NewString()
		}
	}
}

// ExportToJSON exports all complaints, sorted by seq, to a JSON file.
func ExportToJSON(ctx context.Context, repo ComplaintRepository, filepath string) (int, error) {
	complaints, err := repo.GetAllSorted(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing complaints: %w", err)
	}

	seed := &SeedData{
		Version:     SeedVersion,
		LastUpdated: time.Now().UTC(),
		Complaints:  complaints,
	}

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}

	err = os.WriteFile(filepath, data, 0o600)
	if err != nil {
		return 0, fmt.Errorf("writing file: %w", err)
	}

	return len(complaints), nil
}

// Import stores complaints in batches. Invalid complaints are skipped and
// returned.
func Import(ctx context.Context, repo ComplaintRepository, complaints []hotspot.GeoPoint) (int, []ValidationError, error) {
	AssignIDs(complaints)
	valid, rejected := FilterValid(complaints)

	bar := newProgress(len(valid), "Importing complaints")
	defer bar.Finish()

	imported := 0

	for start := 0; start < len(valid); start += seedBatchSize {
		if err := ctx.Err(); err != nil {
			return imported, rejected, err
		}

		end := min(start+seedBatchSize, len(valid))
		if err := repo.BulkInsert(ctx, valid[start:end]); err != nil {
			return imported, rejected, fmt.Errorf("saving complaints %d-%d: %w", start, end, err)
		}

		imported += end - start
		bar.Add(end - start)
	}

	return imported, rejected, nil
}

// ImportFromJSON imports complaints from a JSON seed file.
func ImportFromJSON(ctx context.Context, repo ComplaintRepository, filepath string) (int, error) {
	seed, err := ReadSeedFile(filepath)
	if err != nil {
		return 0, err
	}

	imported, rejected, err := Import(ctx, repo, seed.Complaints)
	for _, r := range rejected {
		log.Printf("⚠️ skipping %v", &r)
	}

	return imported, err
}

// SeedIfEmpty seeds the database from a JSON file if no complaints exist.
func SeedIfEmpty(ctx context.Context, repo ComplaintRepository, filepath string) (bool, int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("counting complaints: %w", err)
	}

	if count > 0 {
		return false, count, nil
	}

	if filepath == "" {
		return false, 0, nil
	}

	if _, err := os.Stat(filepath); errors.Is(err, os.ErrNotExist) {
		return false, 0, nil
	}

	imported, err := ImportFromJSON(ctx, repo, filepath)
	if err != nil {
		return false, imported, err
	}

	return true, imported, nil
}
