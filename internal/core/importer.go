package core

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/daman/internal/logging"
	"github.com/xuri/excelize/v2"
)

// importExtensions are the workbook formats excelize can open.
var importExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// RecordWriter is the write side of the record store used by imports.
type RecordWriter interface {
	ExistsByIdentifierAndSequence(ctx context.Context, identifier string, seq int) (bool, error)
	// InsertMany stores records whose key is free and returns the ones it
	// skipped because the key already existed.
	InsertMany(ctx context.Context, records []QRRecord) ([]QRRecord, error)
}

// Importer loads QR records from spreadsheet files.
type Importer struct {
	store    RecordWriter
	notifier ActivityNotifier
}

// NewImporter creates an importer writing to store. notifier may be nil.
func NewImporter(store RecordWriter, notifier ActivityNotifier) *Importer {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Importer{store: store, notifier: notifier}
}

// CheckFileName rejects missing names and extensions other than .xlsx/.xlsm.
func CheckFileName(fileName string) error {
	if strings.TrimSpace(fileName) == "" {
		return ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !importExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	return nil
}

// Import reads the first sheet of the workbook in r and inserts every row
// whose key is not already stored.
//
// Rows missing a column or with a non-positive sequence number are skipped
// without being counted. Existing keys, and keys repeated within the file,
// count as duplicates. When nothing is inserted but duplicates were found the
// import fails with *AllDuplicatesError.
func (i *Importer) Import(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	start := time.Now()

	if err := CheckFileName(fileName); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrNoFile
	}

	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	records := ParseImportRows(rows)

	result := &ImportResult{FileName: filepath.Base(fileName)}
	candidates := make([]QRRecord, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		key := rec.Key()
		if seen[key] {
			result.Duplicates++
			result.DuplicateKeys = append(result.DuplicateKeys, key)
			continue
		}
		seen[key] = true

		exists, err := i.store.ExistsByIdentifierAndSequence(ctx, rec.Identifier, rec.SequenceNumber)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", key, err)
		}
		if exists {
			result.Duplicates++
			result.DuplicateKeys = append(result.DuplicateKeys, key)
			continue
		}
		candidates = append(candidates, rec)
	}

	if len(candidates) > 0 {
		skipped, err := i.store.InsertMany(ctx, candidates)
		if err != nil {
			return nil, fmt.Errorf("insert qr records: %w", err)
		}
		result.Inserted = len(candidates) - len(skipped)
		// Rows lost to a concurrent insert between check and insert.
		for _, rec := range skipped {
			result.Duplicates++
			result.DuplicateKeys = append(result.DuplicateKeys, rec.Key())
		}
	}

	result.Duration = time.Since(start)

	logging.WithFields(ctx,
		"file", result.FileName,
		"rows", len(rows),
		"valid", len(records),
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
		"duration_ms", result.Duration.Milliseconds(),
	).Info("qr import finished")

	if result.Inserted == 0 && result.Duplicates > 0 {
		return result, &AllDuplicatesError{Keys: result.DuplicateKeys, Count: result.Duplicates}
	}

	i.notifier.Notify(ctx, AuditLogParams{
		Action:       ActionImport,
		Subject:      result.FileName,
		RowsAffected: result.Inserted,
		Summary: fmt.Sprintf("Imported %s: %d inserted, %d duplicates skipped",
			result.FileName, result.Inserted, result.Duplicates),
	})

	return result, nil
}

// ParseImportRows converts spreadsheet rows (header first) into records.
// Structurally invalid rows are dropped.
func ParseImportRows(rows [][]string) []QRRecord {
	if len(rows) <= 1 {
		return nil
	}

	records := make([]QRRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if rec, ok := parseImportRow(row); ok {
			records = append(records, rec)
		}
	}
	return records
}

func parseImportRow(row []string) (QRRecord, bool) {
	if len(row) < 3 {
		return QRRecord{}, false
	}

	identifier := cleanCell(row[0])
	seqText := cleanCell(row[1])
	label := cleanCell(row[2])
	if identifier == "" || seqText == "" || label == "" {
		return QRRecord{}, false
	}

	seq, err := strconv.Atoi(seqText)
	if err != nil || seq <= 0 || seq > math.MaxInt32 {
		return QRRecord{}, false
	}

	return QRRecord{Identifier: identifier, SequenceNumber: seq, Label: label}, true
}

// cleanCell trims whitespace, a leading byte order mark and the ="..."
// wrapper spreadsheets use to keep numeric ids as text. A value wrapped in
// one pair of matching quotes is unwrapped; quotes inside a value are kept.
func cleanCell(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] &&
		!strings.ContainsRune(s[1:len(s)-1], rune(s[0])) {
		s = s[1 : len(s)-1]
	}

	return strings.TrimSpace(s)
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	return rows, nil
}
