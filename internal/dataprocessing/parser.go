package dataprocessing

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	apierrors "socialpulse/internal/errors"
	"socialpulse/internal/validation"
	"socialpulse/pkg/contracts/domain"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat infers the format from a file name extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", filepath.Ext(name))
	}
}

// ParseFormat converts a format name such as "csv" or "xlsx".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// RowError describes a rejected row.
type RowError struct {
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
	}
	return fmt.Sprintf("%s:%d: %s %s", e.Source, e.Line, e.Field, e.Message)
}

// ParseResult is the outcome of parsing one export.
type ParseResult struct {
	Source    string                `json:"source"`
	Format    Format                `json:"format"`
	TotalRows int                   `json:"total_rows"`
	Records   []domain.WeeklyRecord `json:"-"`
	Errors    []RowError            `json:"errors"`
}

// Parser converts export rows into weekly records.
type Parser struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewParser creates a parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:   logger.With(slog.String("component", "parser")),
		validate: validation.NewStructValidator(),
	}
}

// ParseFile opens path and parses it according to its extension.
func (p *Parser) ParseFile(ctx context.Context, path string) (*ParseResult, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, apierrors.NewParsingError(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewStorageError("failed to open export", err).WithContext("path", path)
	}
	defer f.Close()

	return p.Parse(ctx, f, format, filepath.Base(path))
}

// Parse reads an export from r. source names the input in row errors.
func (p *Parser) Parse(ctx context.Context, r io.Reader, format Format, source string) (*ParseResult, error) {
	start := time.Now()

	var (
		rows  [][]string
		comma = ','
		err   error
	)
	switch format {
	case FormatCSV:
		rows, comma, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to read export",
			slog.String("source", source),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		return nil, apierrors.NewParsingError(fmt.Sprintf("cannot read %s", source), err)
	}

	result, err := p.parseRows(ctx, rows, source, comma == ';')
	if err != nil {
		return nil, err
	}
	result.Format = format

	p.logger.InfoContext(ctx, "parsed export",
		slog.String("source", source),
		slog.String("format", string(format)),
		slog.Int("rows", result.TotalRows),
		slog.Int("accepted", len(result.Records)),
		slog.Int("rejected", len(result.Errors)),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

// readCSV reads all rows, accepting a UTF-8 BOM and comma or semicolon
// delimiters. The sniffed delimiter is returned with the rows.
func readCSV(r io.Reader) ([][]string, rune, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}

	comma := sniffDelimiter(br)
	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	return rows, comma, err
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// readXLSX returns the rows of the first sheet that carries a header.
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil || len(rows) == 0 {
			continue
		}
		if _, _, err := findHeader(rows); err == nil {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("no sheet with a recognizable header")
}

// parseRows converts data rows below the header. decimalComma selects the
// semicolon-export number convention: '.' groups thousands and ',' marks
// decimals.
func (p *Parser) parseRows(ctx context.Context, rows [][]string, source string, decimalComma bool) (*ParseResult, error) {
	headerIdx, cols, err := findHeader(rows)
	if err != nil {
		return nil, apierrors.NewParsingError(fmt.Sprintf("cannot parse %s", source), err)
	}

	result := &ParseResult{Source: source, Records: []domain.WeeklyRecord{}, Errors: []RowError{}}
	for i := headerIdx + 1; i < len(rows); i++ {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(rows[i]) {
			continue
		}
		result.TotalRows++

		line := i + 1
		record, rowErrs := p.parseRow(rows[i], cols, decimalComma)
		if len(rowErrs) > 0 {
			for _, re := range rowErrs {
				re.Source = source
				re.Line = line
				result.Errors = append(result.Errors, re)
			}
			p.logger.DebugContext(ctx, "rejected row",
				slog.String("source", source),
				slog.Int("line", line),
				slog.Int("errors", len(rowErrs)))
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func (p *Parser) parseRow(cells []string, cols columnMap, decimalComma bool) (domain.WeeklyRecord, []RowError) {
	get := func(c column) string {
		idx := cols[c]
		if idx < 0 || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	var errs []RowError
	fail := func(c column, msg string) {
		errs = append(errs, RowError{Field: c.String(), Message: msg})
	}

	status := domain.ParseRecordStatus(get(colStatus))

	year, err := parseInt(get(colYear))
	if err != nil {
		fail(colYear, err.Error())
	}
	week, err := parseInt(get(colWeek))
	if err != nil {
		fail(colWeek, err.Error())
	}

	metric := func(c column) int64 {
		v, empty, err := parseCount(get(c), decimalComma)
		switch {
		case err != nil:
			fail(c, err.Error())
		case empty && status != domain.StatusNoActivity:
			fail(c, "is required")
		}
		return v
	}
	reach := metric(colReach)
	engagements := metric(colEngagements)

	if len(errs) > 0 {
		return domain.WeeklyRecord{}, errs
	}

	period, perr := resolvePeriod(year, week, get(colStartDate), get(colEndDate))
	if perr != nil {
		return domain.WeeklyRecord{}, []RowError{*perr}
	}

	record := domain.WeeklyRecord{
		Page:    domain.NewPage(get(colPageID), get(colPageName)),
		Period:  period,
		Metrics: domain.Metrics{Reach: reach, Engagements: engagements},
		Status:  status,
		Comment: get(colComment),
	}

	if err := p.validate.Struct(record); err != nil {
		for _, fe := range validation.FieldErrors(err) {
			errs = append(errs, RowError{Field: fe.Field, Message: fe.Message})
		}
		return domain.WeeklyRecord{}, errs
	}
	if err := record.Period.Check(); err != nil {
		return domain.WeeklyRecord{}, []RowError{{Field: colStartDate.String(), Message: err.Error()}}
	}
	return record, nil
}

// resolvePeriod builds the week period, deriving missing dates from the ISO
// week or from the other boundary.
func resolvePeriod(year, week int, rawStart, rawEnd string) (domain.WeekPeriod, *RowError) {
	if err := domain.CheckYearWeek(year, week); err != nil {
		field := colWeek
		if year < domain.MinYear || year > domain.MaxYear {
			field = colYear
		}
		return domain.WeekPeriod{}, &RowError{Field: field.String(), Message: err.Error()}
	}

	var start, end string
	var err error
	if rawStart != "" {
		if start, err = parseDate(rawStart); err != nil {
			return domain.WeekPeriod{}, &RowError{Field: colStartDate.String(), Message: err.Error()}
		}
	}
	if rawEnd != "" {
		if end, err = parseDate(rawEnd); err != nil {
			return domain.WeekPeriod{}, &RowError{Field: colEndDate.String(), Message: err.Error()}
		}
	}

	switch {
	case start == "" && end == "":
		iso, err := domain.ISOWeekPeriod(year, week)
		if err != nil {
			return domain.WeekPeriod{}, &RowError{Field: colWeek.String(), Message: err.Error()}
		}
		return iso, nil
	case start == "":
		start = shiftDate(end, -6)
	case end == "":
		end = shiftDate(start, 6)
	}
	return domain.WeekPeriod{Year: year, Week: week, StartDate: start, EndDate: end}, nil
}

var dateLayouts = []string{domain.DateLayout, "2006/01/02", "02.01.2006", time.RFC3339}

// parseDate normalizes a date cell to YYYY-MM-DD. Excel serial numbers are
// accepted for XLSX date cells.
func parseDate(raw string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(domain.DateLayout), nil
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format(domain.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognized date %q", raw)
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, days).Format(domain.DateLayout)
}

// parseCount parses a non-negative count, tolerating thousands separators,
// spaces and a zero fraction. empty reports a blank cell.
func parseCount(raw string, decimalComma bool) (v int64, empty bool, err error) {
	grouping := strings.NewReplacer(",", "", " ", "", "\u00a0", "", "_", "")
	if decimalComma {
		grouping = strings.NewReplacer(".", "", ",", ".", " ", "", "\u00a0", "", "_", "")
	}
	s := grouping.Replace(raw)
	if s == "" || s == "-" {
		return 0, true, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, false, nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int64(f)) {
		return 0, false, fmt.Errorf("must be a whole number, got %q", raw)
	}
	return int64(f), false, nil
}

func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("is required")
	}
	v, empty, err := parseCount(raw, false)
	if err != nil || empty {
		return 0, fmt.Errorf("must be a whole number, got %q", raw)
	}
	return int(v), nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
