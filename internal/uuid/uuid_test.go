package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_UUID4(t *testing.T) {
	assert.Len(t, UUID4(), 36)
	assert.NotEqual(t, UUID4(), UUID4())
	assert.NotPanics(t, func() { _ = MustUUID4() })
}
