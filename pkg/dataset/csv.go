/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

func readCSV(path string) ([][]string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(contents))
	r.Comma = sniffDelimiter(contents)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing csv")
	}
	return records, nil
}

// sniffDelimiter picks ';' when the header uses it, which is what spreadsheet
// exports in pt-BR locales produce since ',' is the decimal separator.
func sniffDelimiter(contents []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(contents))
	if !scanner.Scan() {
		return ','
	}
	header := scanner.Bytes()
	if bytes.Count(header, []byte{';'}) > bytes.Count(header, []byte{','}) {
		return ';'
	}
	return ','
}
