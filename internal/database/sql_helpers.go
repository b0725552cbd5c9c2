package database

import (
	"database/sql"
	"time"
)

// referenceEpoch is the zero point for every stored timestamp.
var referenceEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// toStoreTime converts t to milliseconds since the reference epoch.
func toStoreTime(t time.Time) int64 {
	return t.Sub(referenceEpoch).Milliseconds()
}

func fromStoreTime(ms int64) time.Time {
	return referenceEpoch.Add(time.Duration(ms) * time.Millisecond)
}

// nullableString converts a string to sql.NullString for optional fields.
// Empty strings are treated as NULL.
func nullableString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// nullableTime converts a time to a nullable stored timestamp.
// The zero time is treated as NULL.
func nullableTime(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toStoreTime(t), Valid: true}
}

func timeFromNullable(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return fromStoreTime(v.Int64)
}
