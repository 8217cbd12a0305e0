package tablescout

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ColumnType names a result column and the type the database reported for it.
type ColumnType struct {
	Name         string `json:"name"`
	DatabaseType string `json:"database_type"`
}

// ResultSet holds the rows of a query along with its column metadata.
type ResultSet struct {
	Columns []ColumnType `json:"columns"`
	Records []Record     `json:"records"`
}

// scanResultSet reads every remaining row of rows.
func scanResultSet(rows *sql.Rows) (*ResultSet, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	rs := &ResultSet{Columns: make([]ColumnType, len(types))}
	for i, ct := range types {
		rs.Columns[i] = ColumnType{Name: ct.Name(), DatabaseType: ct.DatabaseTypeName()}
	}

	dest := make([]any, len(types))
	ptrs := make([]any, len(types))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec := make(Record, len(types))
		for i, col := range rs.Columns {
			rec[col.Name] = toValue(dest[i], col.DatabaseType)
		}
		rs.Records = append(rs.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}

// isDecimalType reports whether a database type name is an exact numeric.
func isDecimalType(dbType string) bool {
	switch strings.ToUpper(dbType) {
	case "NUMERIC", "DECIMAL":
		return true
	}
	return false
}

// toValue converts a driver value into a Value.
func toValue(src any, dbType string) Value {
	switch v := src.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(v)
	case int64:
		return Int(v)
	case int32:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int:
		return Int(int64(v))
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case time.Time:
		return Timestamp(v)
	case string:
		if isDecimalType(dbType) {
			return Decimal(v)
		}
		return String(v)
	case []byte:
		if isDecimalType(dbType) {
			return Decimal(string(v))
		}
		return String(string(v))
	default:
		return String(fmt.Sprint(v))
	}
}
