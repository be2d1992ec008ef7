/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_ ]*$`)

// readSQLite reads every row of table. With no table given, the first table
// in the database (by name) is used.
func readSQLite(ctx context.Context, path, table string) ([][]string, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite database")
	}
	defer db.Close()

	if table == "" {
		err = db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name LIMIT 1`).Scan(&table)
		if err != nil {
			return nil, errors.Wrap(err, "looking up a table to read")
		}
	}
	if !tableName.MatchString(table) {
		return nil, errors.Errorf("invalid table name %q", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, errors.Wrapf(err, "selecting from %s", table)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := [][]string{columns}
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		record := make([]string, len(columns))
		for i, v := range values {
			record[i] = sqlString(v)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func sqlString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	}
	return fmt.Sprint(v)
}
