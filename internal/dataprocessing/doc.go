// Package dataprocessing turns weekly page-metric exports into validated
// domain records.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: reads CSV or XLSX exports, detects the header row by column
// aliases and converts each row into a domain.WeeklyRecord
// 2. Loader: parses several files concurrently and appends their records to
// a dataset in input order
// 3. CoverageProcessor: reports the weeks each page is missing
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger)
//	result, err := parser.ParseFile(ctx, "exports/week-01.csv")
//	if err != nil {
//	    return err
//	}
//	for _, rowErr := range result.Errors {
//	    logger.Warn("rejected row", slog.String("error", rowErr.Error()))
//	}
//
// Loading a directory of exports into one dataset:
//
//	loader := dataprocessing.NewLoader(parser, logger, 4)
//	report, err := loader.LoadFiles(ctx, dataset, files)
//
// # Data Flow
//
//	CSV/XLSX → Parser → ParseResult → Loader → Dataset → analytics / aggregation
//
// # Error Handling
//
// A file that cannot be read or has no recognizable header fails with a
// PARSING AppError. Individual bad rows never fail the file; they are
// collected as RowError values next to the accepted records.
package dataprocessing
