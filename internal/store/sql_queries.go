package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	vaultRecordsTable = "vault_records"

	upsertVaultRecordSuffix = "ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at"
)

// sqlite uses '?' placeholders, which is squirrel's default format.
var sqlBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func buildLoadVaultRecordQuery(name string) (string, []any, error) {
	return sqlBuilder.
		Select("data").
		From(vaultRecordsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
}

func buildCountVaultRecordQuery(name string) (string, []any, error) {
	return sqlBuilder.
		Select("COUNT(*)").
		From(vaultRecordsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
}

// buildUpsertVaultRecordQuery replaces the record in a single statement.
func buildUpsertVaultRecordQuery(name string, data []byte, updatedAt time.Time) (string, []any, error) {
	return sqlBuilder.
		Insert(vaultRecordsTable).
		Columns("name", "data", "updated_at").
		Values(name, data, updatedAt.UTC()).
		Suffix(upsertVaultRecordSuffix).
		ToSql()
}
