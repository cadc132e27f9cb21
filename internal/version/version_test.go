package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMinorVersion(t *testing.T) {
	assert.Equal(t, "0.2", GetMinorVersion("0.2.5"))
	assert.Equal(t, "1.0", GetMinorVersion("v1.0.0"))
	assert.Equal(t, "0.1.0", GetSchemaVersion("0.1.9"))
}

func TestCompare(t *testing.T) {
	assert.True(t, IsVersionGreaterThan("0.10.0", "0.9.0"))
	assert.False(t, IsVersionGreaterThan("0.2.0", "0.2.0"))
	assert.True(t, IsVersionGreaterOrEqualThan("0.2.0", "0.2"))
	assert.False(t, IsVersionGreaterOrEqualThan("0.1.0", "0.2.0"))
}

func TestSortVersion(t *testing.T) {
	versions := []string{"0.10", "0.2", "0.1", "1.0"}
	SortVersion(versions)
	assert.Equal(t, []string{"0.1", "0.2", "0.10", "1.0"}, versions)
}
