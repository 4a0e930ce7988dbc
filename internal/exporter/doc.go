// Package exporter writes analytics results as CSV or XLSX.
//
// Results are first converted to a Table (GroupsTable, PivotTable,
// RankingsTable, GrowthTable, DistributionTable, TimeseriesTable). A Table
// can then be streamed with EncodeCSV or EncodeXLSX, or written to disk with
// an Exporter, which picks the format from the file extension:
//
//	table, err := exporter.PivotTable(aggregation.CreatePivotTable(records, domain.MetricReach))
//	if err != nil {
//		return err
//	}
//	path, err := exporter.NewExporter(reportsDir, logger).Export("pivot.xlsx", table)
//
// CSV files are written with a UTF-8 BOM so spreadsheet applications detect
// the encoding. Pivot tables end with a column combining each page's weeks
// with the metric's registered method, so reach is averaged, never summed.
package exporter
