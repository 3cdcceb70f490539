package odata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirection_String(t *testing.T) {
	assert.Equal(t, "asc", Ascending.String())
	assert.Equal(t, "desc", Descending.String())
}
