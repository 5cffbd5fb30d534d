// Package core provides the business logic for QR label lookup and import.
//
// It has no HTTP dependencies; the web package and tests drive it through
// [Service].
//
// # Search
//
// Operators type one or more tokens separated by commas or new lines:
//
//	100192 1-10
//	100192 12
//
// [ParseQueries] turns each token into a [RangeQuery] (a single number is a
// one-port range) and silently drops tokens of any other shape. The
// [Resolver] then reads the store once per query, in input order. Matches are
// sorted by port within a query and concatenated without deduplication;
// queries with no match are echoed back as "<id> <start>-<end>".
//
// # Import and export
//
// [Importer] reads the first sheet of an .xlsx file, skips the header row and
// rows missing a column or with a bad port number, and inserts rows whose
// (identifier, port) key is new. If every valid row was a duplicate the
// import fails with [AllDuplicatesError]. [ExportWorkbook] writes records
// under the headers "QR ID", "Port ID" and "Label QR".
//
// # Errors
//
// [MapError] turns errors into a [UserMessage] with a support code
// (QR001-QR003, FILE001-FILE004, DB001-DB006, UPL001-UPL003, VAL001,
// RATE001, ERR000).
//
// # Audit
//
// Imports and deletions are recorded through [AuditService.Notify], which
// never fails its caller. Old entries are purged by
// [AuditService.StartRetentionScheduler].
package core
