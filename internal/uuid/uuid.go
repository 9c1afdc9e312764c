package uuid

import (
	"github.com/gofrs/uuid"
)

const nilUUID = "00000000-0000-0000-0000-000000000000"

// UUID4 - return new UUID v4 string (nil UUID on generator error).
func UUID4() string {
	u, err := uuid.NewV4()
	if err != nil {
		return nilUUID
	}

	return u.String()
}

// MustUUID4 - return new UUID v4 string, panic on generator error.
func MustUUID4() string {
	return uuid.Must(uuid.NewV4()).String()
}
