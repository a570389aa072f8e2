package report

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// WriteCSV serializes the report rows with a header line.
func WriteCSV(w io.Writer, rows []model.ReportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(model.ReportHeader()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Fields()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes the report to a file at path.
func WriteCSVFile(path string, rows []model.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
