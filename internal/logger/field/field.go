// Package field - thin aliases under zap fields, to not import zap everywhere.
package field

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field - alias of zapcore.Field.
type Field = zapcore.Field

// Error - error field.
func Error(err error) Field {
	return zap.Error(err)
}

// String - string field.
func String(key, val string) Field {
	return zap.String(key, val)
}

// Int - int field.
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Any - any field.
func Any(key string, val any) Field {
	return zap.Any(key, val)
}

// ID - id field.
func ID(id int64) Field {
	return zap.Int64("id", id)
}

// Controller - controller name field.
func Controller(name string) Field {
	return zap.String("controller", name)
}

// Shop - shop id field.
func Shop(id int64) Field {
	return zap.Int64("shop_id", id)
}

// Date - calendar date field.
func Date(date string) Field {
	return zap.String("date", date)
}

// Page - page index field.
func Page(page int) Field {
	return zap.Int("page", page)
}
