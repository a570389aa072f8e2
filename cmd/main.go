package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rich-armb/IAM-Reporting-Script/pkg/config"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/db"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/gcp"
	"github.com/rich-armb/IAM-Reporting-Script/pkg/report"
	"github.com/spf13/cobra"
	"google.golang.org/api/option"
)

func main() {

	binaryName := filepath.Base(os.Args[0])
	var rootCmd = &cobra.Command{
		Use:   binaryName,
		Short: "Generate analyst-friendly reports of GCP IAM policy bindings",
	}

	var cmdFetch = &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the organization's IAM policy search results into a raw JSON export",
		Run: func(cmd *cobra.Command, args []string) {
			gcpOrgId, _ := cmd.Flags().GetString("gcpOrgId")
			quotaProjectId, _ := cmd.Flags().GetString("quotaProjectId")
			output, _ := cmd.Flags().GetString("output")

			ctx := context.Background()
			var opts []option.ClientOption
			if quotaProjectId != "" {
				opts = append(opts, option.WithQuotaProject(quotaProjectId))
			}

			fmt.Printf("Fetching IAM policies for organizations/%s...\n", gcpOrgId)
			count, err := gcp.DumpPolicySearch(ctx, "organizations/"+gcpOrgId, output, opts...)
			if err != nil {
				log.Fatalf("Failed to fetch IAM policies: %v", err)
			}
			fmt.Printf("Wrote %d records to %s\n", count, output)
		},
	}
	cmdFetch.Flags().StringP("gcpOrgId", "", "", "GCP organization ID to search (mandatory)")
	cmdFetch.Flags().StringP("quotaProjectId", "", "", "Project ID to bill API quota against")
	cmdFetch.Flags().StringP("output", "", "./iam_policies.json", "Path of the raw JSON export to write")
	cmdFetch.MarkFlagRequired("gcpOrgId")

	var cmdReport = &cobra.Command{
		Use:   "report",
		Short: "Generate the enriched CSV report from a raw JSON export",
		Run: func(cmd *cobra.Command, args []string) {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			configPath, _ := cmd.Flags().GetString("config")
			sqliteFile, _ := cmd.Flags().GetString("sqliteFile")

			cfg, err := config.Load(configPath)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}

			// A missing or corrupt export is the one failure that stops the
			// run before it starts; everything downstream degrades per
			// resource instead.
			records, err := gcp.LoadExport(input)
			if err != nil {
				log.Fatalf("Failed to read the raw export %s: %v", input, err)
			}

			ctx := context.Background()
			directory, err := gcp.NewResourceManagerDirectory(ctx)
			if err != nil {
				log.Fatalf("Failed to create resource manager clients: %v", err)
			}
			defer directory.Close()

			filter, err := report.NewNoiseFilter(cfg.NoiseRules)
			if err != nil {
				log.Fatalf("Invalid noise filter configuration: %v", err)
			}
			resolver := report.NewResolver(report.NewCache(directory), cfg.MaxDepth)
			assembler := report.NewAssembler(resolver, filter)

			fmt.Printf("Processing %d records from %s...\n", len(records), input)
			rows, summary := assembler.Assemble(ctx, records)

			if err := report.WriteCSVFile(output, rows); err != nil {
				log.Fatalf("Failed to write the report %s: %v", output, err)
			}

			if sqliteFile != "" {
				database, err := db.InitDB(sqliteFile)
				if err != nil {
					log.Fatalf("Failed to initialize database: %v", err)
				}
				defer database.Close()
				if err := db.InsertReportRows(database, rows); err != nil {
					log.Fatalf("Failed to archive report rows: %v", err)
				}
				fmt.Printf("Archived %d rows to %s\n", len(rows), sqliteFile)
			}

			fmt.Printf("Report ready: %s (%d rows)\n", output, summary.Rows)
			if summary.Skipped > 0 {
				fmt.Printf("Skipped %d out-of-scope or malformed records\n", summary.Skipped)
			}
			if summary.Noise > 0 {
				fmt.Printf("Excluded %d records as system-owned noise\n", summary.Noise)
			}
			if summary.LookupFailures > 0 {
				fmt.Printf("Warning: %d resources resolved with fallback values\n", summary.LookupFailures)
			}
		},
	}
	cmdReport.Flags().StringP("input", "", "./iam_policies.json", "Path of the raw JSON export to read")
	cmdReport.Flags().StringP("output", "", "./iam_report_final.csv", "Path of the CSV report to write")
	cmdReport.Flags().StringP("config", "", "./report-config.yaml", "Path to the YAML run configuration")
	cmdReport.Flags().StringP("sqliteFile", "", "", "Optional SQLite file to archive report rows into")

	var cmdExport = &cobra.Command{
		Use:   "export",
		Short: "Export the SQLite archive to CSV files",
		Run: func(cmd *cobra.Command, args []string) {
			sqliteFile, _ := cmd.Flags().GetString("sqliteFile")
			exportDir, _ := cmd.Flags().GetString("exportDir")
			if err := db.ExportTables(sqliteFile, exportDir); err != nil {
				log.Fatalf("Failed to export tables to csv files: %v", err)
			}
		},
	}
	cmdExport.Flags().StringP("sqliteFile", "", "./report.db", "Path to the SQLite archive")
	cmdExport.Flags().StringP("exportDir", "", "./export", "Directory used to dump CSV exports")

	var cmdUpload = &cobra.Command{
		Use:   "upload",
		Short: "Upload report files to GCS",
		Run: func(cmd *cobra.Command, args []string) {
			srcPath, _ := cmd.Flags().GetString("srcPath")
			bucketName, _ := cmd.Flags().GetString("bucketName")
			prefix, _ := cmd.Flags().GetString("prefix")
			ctx := context.Background()
			if err := gcp.UploadReport(ctx, bucketName, prefix, srcPath); err != nil {
				log.Fatalf("Failed to upload files to GCS: %v", err)
			}
		},
	}
	cmdUpload.Flags().StringP("bucketName", "", "", "GCS bucket name where files are uploaded (mandatory)")
	cmdUpload.Flags().StringP("prefix", "", "", "Object name prefix inside the bucket")
	cmdUpload.Flags().StringP("srcPath", "", "./iam_report_final.csv", "Path to upload, can be a file or a directory (non-recursive)")
	cmdUpload.MarkFlagRequired("bucketName")

	rootCmd.AddCommand(cmdFetch, cmdReport, cmdExport, cmdUpload)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
