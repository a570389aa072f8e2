package db

import (
	"database/sql"
	"fmt"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/model"
)

// InsertReportRows archives the rows of a run, replacing any rows left over
// from a previous run so the archive always mirrors the latest report.
func InsertReportRows(db *sql.DB, rows []model.ReportRow) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM report`); err != nil {
		return fmt.Errorf("clearing previous report: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO report
		(organization_id, resource_type, resource_id, resource_name, parent_name, role, member)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.Exec(row.OrganizationID, row.ResourceType, row.ResourceID,
			row.ResourceName, row.Parent, row.Role, row.Member)
		if err != nil {
			return fmt.Errorf("inserting row for %s/%s: %w", row.ResourceType, row.ResourceID, err)
		}
	}

	return tx.Commit()
}
