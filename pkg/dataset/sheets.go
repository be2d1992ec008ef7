/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func readSheets(ctx context.Context, spreadsheetID, rng, credentials string) ([][]string, error) {
	if credentials == "" {
		credentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credentials == "" {
		return nil, errors.New("missing service account credentials (set dataset.credentials or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(credentials)
	if err != nil {
		return nil, errors.Wrap(err, "reading service account file")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, errors.Wrap(err, "creating sheets service")
	}

	if rng == "" {
		rng = "A:Z"
	}
	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "reading range %s", rng)
	}

	records := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		records = append(records, record)
	}
	return records, nil
}
