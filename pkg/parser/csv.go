package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"remap/pkg/schema"
)

// Warning represents a non-fatal issue encountered during CSV parsing.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result contains the parsed table alongside any warnings and the encoding
// the input was decoded from.
type Result struct {
	Table    *schema.Table `json:"table"`
	Warnings []Warning     `json:"warnings"`
	Encoding string        `json:"encoding"`
}

// Parse parses CSV bytes into a table. The header row becomes the column
// order; null literals become null cells. It handles mismatched column
// counts (pad/truncate), skipped malformed rows, and non-UTF-8 encodings,
// reporting each as a warning rather than failing the batch.
func Parse(data []byte) (*Result, error) {
	decoded, encName, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("encoding detection failed: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Variable field counts are handled below by padding or truncating.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = schema.NormalizeHeader(h)
	}

	table := schema.NewTable(headers)
	headerCount := len(headers)

	var warnings []Warning
	rowNum := 1 // 1-indexed; header is row 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			warnings = append(warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if len(row) != headerCount {
			if len(row) < headerCount {
				warnings = append(warnings, Warning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; padding with nulls", len(row), headerCount),
				})
				padded := make([]string, headerCount)
				copy(padded, row)
				row = padded
			} else {
				warnings = append(warnings, Warning{
					Row:     rowNum,
					Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
				})
				row = row[:headerCount]
			}
		}

		record := make(schema.Record, headerCount)
		for i, h := range headers {
			record[h] = schema.Cell(row[i])
		}
		table.Rows = append(table.Rows, record)
	}

	return &Result{
		Table:    table,
		Warnings: warnings,
		Encoding: encName,
	}, nil
}
