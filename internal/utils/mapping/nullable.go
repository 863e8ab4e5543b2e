package mapping

import "database/sql"

// ToNullString maps an optional id to a nullable column value.
func ToNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// FromNullString maps a nullable column value to an optional id.
func FromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// StringToNull maps an empty string to NULL.
func StringToNull(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
