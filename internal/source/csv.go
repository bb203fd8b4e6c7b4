package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/targetdigest/ietrack/internal/model"
)

// FormatCSV names the CSV export parser.
const FormatCSV = "csv"

// Header is the CSV header for filing exports.
const Header = "date,committee,position,amount,description,url"

const (
	numFields = 6
	colDate   = 0
	colCmte   = 1
	colPos    = 2
	colAmount = 3
	colDesc   = 4
	colURL    = 5
)

// CSVParser reads filing exports written by WriteFilings.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return FormatCSV }

// Parse reads a filing CSV. Unlike scraped pages, a bad amount fails the
// whole file.
func (p *CSVParser) Parse(r io.Reader) ([]model.Filing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading filing CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var filings []model.Filing
	for i, rec := range records[1:] {
		f, err := UnmarshalFiling(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		filings = append(filings, f)
	}
	return filings, nil
}

// WriteFilings writes filings as CSV, including the header.
func WriteFilings(w io.Writer, filings []model.Filing) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, f := range filings {
		if err := cw.Write(MarshalFiling(f)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalFiling converts a Filing to a CSV row. The raw date is kept so
// ranges survive a round trip.
func MarshalFiling(f model.Filing) []string {
	row := make([]string, numFields)
	row[colDate] = f.RawDate
	if row[colDate] == "" && f.HasDate() {
		row[colDate] = f.Date.Format("01/02/2006")
	}
	row[colCmte] = f.Committee
	row[colPos] = string(f.Position)
	row[colAmount] = f.Amount.StringFixed(2)
	row[colDesc] = f.Description
	row[colURL] = f.URL
	return row
}

// UnmarshalFiling converts a CSV row to a Filing. The date is left for the
// tracker to interpret.
func UnmarshalFiling(record []string) (model.Filing, error) {
	if len(record) != numFields {
		return model.Filing{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := parseAmount(record[colAmount])
	if err != nil {
		return model.Filing{}, err
	}

	return model.Filing{
		RawDate:     strings.TrimSpace(record[colDate]),
		Committee:   record[colCmte],
		Position:    model.Position(strings.ToUpper(strings.TrimSpace(record[colPos]))),
		Amount:      amount,
		Description: record[colDesc],
		URL:         record[colURL],
	}, nil
}
