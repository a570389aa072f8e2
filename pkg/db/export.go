package db

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ExportTables dumps each table in the SQLite archive to a separate CSV
// file under exportDir, which is recreated from scratch.
func ExportTables(dbPath string, exportDir string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_ = os.RemoveAll(exportDir)
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("Dumping table: %s\n", table)
		outputPath := filepath.Join(exportDir, table+".csv")
		if err := dumpTableToCSV(db, table, outputPath); err != nil {
			return err
		}
	}

	return nil
}

// dumpTableToCSV queries a table and writes its content to a CSV file. The
// table name cannot be parameterized, so it is interpolated; names come
// from sqlite_master, not user input.
func dumpTableToCSV(db *sql.DB, tableName, outputPath string) error {
	rows, err := db.Query("SELECT * FROM " + tableName)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(cols); err != nil {
		return err
	}

	values := make([]interface{}, len(cols))
	valuePtrs := make([]interface{}, len(cols))
	for rows.Next() {
		for i := range cols {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return err
		}

		record := make([]string, len(cols))
		for i, col := range values {
			if col != nil {
				record[i] = fmt.Sprintf("%v", col)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return rows.Err()
}
