// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store reads the funding_compass relational tables and returns
// flat rows with no business logic attached. The external ingest pipeline
// owns writes; this layer is read-only apart from the schema bootstrap and
// the seeding helper used by tests and local development.
package store

import (
	"context"

	"github.com/UN-CRAFd/crafd-crisis-data-funding-compass-sub001/services/compass/datatypes"
)

// RowSource is the row-reading collaborator contract consumed by the
// snapshot cache.
type RowSource interface {
	FetchRows(ctx context.Context) (*datatypes.RowBundle, error)
}
