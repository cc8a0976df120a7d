package depend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"
)

func TestMarkers(t *testing.T) {
	up := Source("other_node")
	assert.Equal(t, "other_node", up.Source)

	lit := Value(cty.NumberIntVal(7))
	assert.True(t, lit.Value.RawEquals(cty.NumberIntVal(7)))

	// Both variants satisfy the closed marker interface.
	var _ Dependency = up
	var _ Dependency = lit
}
