//
// Copyright 2016 Gregory Trubetskoy. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serde

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/lib/pq" // postgres driver

	"github.com/vtrack/vtrack/series"
)

type pgSerDe struct {
	dbConn     *sql.DB
	sql1, sql2 *sql.Stmt
	prefix     string
}

// InitDb connects to PostgreSQL and returns a SerDe which stores one
// row per entity with the document in a JSONB column. Tables are
// created if missing; prefix is prepended to table names.
func InitDb(connectString, prefix string) (SerDe, error) {
	dbConn, err := sql.Open("postgres", connectString)
	if err != nil {
		return nil, err
	}
	p := &pgSerDe{dbConn: dbConn, prefix: prefix}
	if err := p.dbConn.Ping(); err != nil {
		return nil, err
	}
	if err := p.createTablesIfNotExist(); err != nil {
		return nil, err
	}
	if err := p.prepareSqlStatements(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pgSerDe) createTablesIfNotExist() error {
	create_sql := `
       CREATE TABLE IF NOT EXISTS %[1]sentity (
       id TEXT NOT NULL PRIMARY KEY,
       doc JSONB NOT NULL,
       updated TIMESTAMPTZ NOT NULL DEFAULT now());
    `
	if _, err := p.dbConn.Exec(fmt.Sprintf(create_sql, p.prefix)); err != nil {
		log.Printf("ERROR: initial CREATE TABLE failed: %v", err)
		return err
	}
	return nil
}

func (p *pgSerDe) prepareSqlStatements() error {
	var err error
	if p.sql1, err = p.dbConn.Prepare(fmt.Sprintf(
		"SELECT id, doc FROM %[1]sentity", p.prefix)); err != nil {
		return err
	}
	if p.sql2, err = p.dbConn.Prepare(fmt.Sprintf(
		"INSERT INTO %[1]sentity (id, doc, updated) VALUES ($1, $2, now()) "+
			"ON CONFLICT (id) DO UPDATE SET doc = $2, updated = now()", p.prefix)); err != nil {
		return err
	}
	return nil
}

func (p *pgSerDe) FetchEntities() (map[string]*series.Entity, error) {
	rows, err := p.sql1.Query()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]*series.Entity{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		doc := &entityDoc{}
		if err := json.Unmarshal(data, doc); err != nil {
			// A corrupt document loses this entity, not the store.
			log.Printf("FetchEntities: skipping %q: %v", id, err)
			continue
		}
		result[id] = decodeEntity(id, doc)
	}
	return result, rows.Err()
}

func (p *pgSerDe) FlushEntities(entities map[string]*series.Entity) error {
	for id, e := range entities {
		data, err := json.Marshal(encodeEntity(e))
		if err != nil {
			return err
		}
		if _, err := p.sql2.Exec(id, data); err != nil {
			return err
		}
	}
	return nil
}
