package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// IDList is stored as a comma separated column.
type IDList []string

func (l IDList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

func (l *IDList) Scan(src any) error {
	parts, err := scanList(src)
	if err != nil {
		return err
	}
	*l = parts
	return nil
}

// Contains reports whether id is in the list.
func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

func scanList(src any) ([]string, error) {
	var raw string
	switch v := src.(type) {
	case nil:
		return nil, nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return nil, fmt.Errorf("unsupported list column type %T", src)
	}
	if raw == "" {
		return nil, nil
	}
	return strings.Split(raw, ","), nil
}
