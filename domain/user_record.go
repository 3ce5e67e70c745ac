// Package domain holds the example entity used to illustrate how storage
// names are derived from field names.
package domain

import "github.com/arllen133/ormnaming"

// UserRecord has no table override, so its table name is derived from the
// type name: implicit "UserRecord", physical "user_record".
type UserRecord struct {
	ID int64 `db:"id,primaryKey"`

	// No override.
	// implicit: userName, physical: user_name
	UserName string

	// Override already in snake_case.
	// implicit: user_address, physical: user_address
	UserAddress string `db:"user_address"`

	// Override in camelCase. The override replaces the implicit stage only;
	// physical naming still applies.
	// implicit: userAge, physical: user_age
	UserAge int32 `db:"userAge"`
}

// UserRecordMapping is the mapping of UserRecord under the default naming
// configuration, resolved once at startup.
var UserRecordMapping = ormnaming.MustRegister[UserRecord](ormnaming.NewResolver())
