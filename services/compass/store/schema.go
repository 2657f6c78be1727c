// Copyright (C) 2025 CRAF'd (Complex Risk Analytics Fund)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

// schemaDDL mirrors the funding_compass schema written by the Airtable
// ingest pipeline. Statements are idempotent so opening an existing
// database is safe.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS organizations (
  id            TEXT PRIMARY KEY,
  org_key       TEXT,
  name          TEXT NOT NULL,
  short_name    TEXT,
  description   TEXT,
  website       TEXT,
  org_type      TEXT,
  funding_type  TEXT,
  hq_country    TEXT,
  est_budget    REAL,
  budget_source TEXT,
  budget_link   TEXT,
  hdx_key       TEXT,
  iati_key      TEXT,
  last_updated  TEXT
);

CREATE TABLE IF NOT EXISTS projects (
  id          TEXT PRIMARY KEY,
  product_key TEXT,
  name        TEXT NOT NULL,
  description TEXT,
  website     TEXT
);

CREATE TABLE IF NOT EXISTS agencies (
  id      TEXT PRIMARY KEY,
  name    TEXT,
  website TEXT,
  country TEXT
);

CREATE TABLE IF NOT EXISTS themes (
  id              TEXT PRIMARY KEY,
  name            TEXT,
  investment_type TEXT
);

CREATE TABLE IF NOT EXISTS agency_organization_funding (
  agency_id       TEXT NOT NULL,
  organization_id TEXT NOT NULL,
  PRIMARY KEY (agency_id, organization_id)
);

CREATE TABLE IF NOT EXISTS agency_project_funding (
  agency_id  TEXT NOT NULL,
  project_id TEXT NOT NULL,
  PRIMARY KEY (agency_id, project_id)
);

CREATE TABLE IF NOT EXISTS organization_project (
  organization_id TEXT NOT NULL,
  project_id      TEXT NOT NULL,
  PRIMARY KEY (organization_id, project_id)
);

CREATE TABLE IF NOT EXISTS project_themes (
  project_id TEXT NOT NULL,
  theme_id   TEXT NOT NULL,
  PRIMARY KEY (project_id, theme_id)
);

CREATE TABLE IF NOT EXISTS member_states (
  name TEXT PRIMARY KEY
);
`
