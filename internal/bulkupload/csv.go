package bulkupload

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/izerwaren/dealerapi/internal/domain"
	"github.com/izerwaren/dealerapi/pkg/errors"
)

var (
	skuHeaders      = []string{"sku", "part_number", "part number"}
	quantityHeaders = []string{"quantity", "qty"}
)

// ParseCSV reads "sku,quantity" rows. The first record is a header. Rows are numbered by their
// line in the file, counting the line after the header as 1, so blank lines still advance the count.
// A quantity that is not a positive integer is kept as 0 so the reconciler reports it on its row.
func ParseCSV(r io.Reader) ([]domain.BulkUploadRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, &errors.ErrValidation{Field: "file", Message: "CSV file is empty"}
	}
	if err != nil {
		return nil, &errors.ErrValidation{Field: "file", Message: fmt.Sprintf("unreadable CSV header: %v", err)}
	}

	skuCol, qtyCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if skuCol < 0 && contains(skuHeaders, name) {
			skuCol = i
		}
		if qtyCol < 0 && contains(quantityHeaders, name) {
			qtyCol = i
		}
	}
	if skuCol < 0 || qtyCol < 0 {
		return nil, &errors.ErrValidation{Field: "file", Message: "CSV header must contain sku and quantity columns"}
	}

	headerLine, _ := reader.FieldPos(0)

	var rows []domain.BulkUploadRow
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !stderrors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read CSV: %w", err)
			}
			// malformed record; keep the row so it is reported as invalid
			rows = append(rows, domain.BulkUploadRow{Row: parseErr.StartLine - headerLine})
			continue
		}

		line, _ := reader.FieldPos(0)
		row := domain.BulkUploadRow{Row: line - headerLine}

		if skuCol < len(record) {
			row.SKU = strings.TrimSpace(record[skuCol])
		}
		if qtyCol < len(record) {
			if qty, err := strconv.Atoi(strings.TrimSpace(record[qtyCol])); err == nil && qty > 0 {
				row.Quantity = qty
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
