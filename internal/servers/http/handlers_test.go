package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseDateRange(t *testing.T) {
	start, end, err := parseDateRange("2024-05-01", "2024-05-03")
	assert.Nil(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), end)

	_, _, err = parseDateRange("2024-05-01", "2024-05-01")
	assert.Nil(t, err)

	_, _, err = parseDateRange("2024-05-03", "2024-05-01")
	assert.NotNil(t, err)

	_, _, err = parseDateRange("05/01/2024", "2024-05-03")
	assert.NotNil(t, err)
}
