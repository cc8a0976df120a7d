package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgridgo/internal/config"
)

func TestWhen(t *testing.T) {
	r := When(map[string]cty.Value{"mode": cty.StringVal("fast")})

	assert.True(t, r.Resolves(config.Snapshot{"mode": cty.StringVal("fast")}))
	assert.False(t, r.Resolves(config.Snapshot{"mode": cty.StringVal("slow")}))
	assert.False(t, r.Resolves(config.Snapshot{}), "absent key never equals")
}

func TestWhenNot(t *testing.T) {
	r := WhenNot(map[string]cty.Value{"mode": cty.StringVal("fast")})

	assert.False(t, r.Resolves(config.Snapshot{"mode": cty.StringVal("fast")}))
	assert.True(t, r.Resolves(config.Snapshot{"mode": cty.StringVal("slow")}))
	assert.True(t, r.Resolves(config.Snapshot{}), "absent key counts as differing")
}

func TestWhenIn(t *testing.T) {
	r := WhenIn(map[string][]cty.Value{
		"region": {cty.StringVal("eu"), cty.StringVal("us")},
	})

	assert.True(t, r.Resolves(config.Snapshot{"region": cty.StringVal("eu")}))
	assert.False(t, r.Resolves(config.Snapshot{"region": cty.StringVal("ap")}))
	assert.False(t, r.Resolves(config.Snapshot{}))
}

func TestWhenNotIn(t *testing.T) {
	r := WhenNotIn(map[string][]cty.Value{
		"region": {cty.StringVal("eu")},
	})

	assert.False(t, r.Resolves(config.Snapshot{"region": cty.StringVal("eu")}),
		"listed value excludes the descriptor")
	assert.True(t, r.Resolves(config.Snapshot{"region": cty.StringVal("us")}))
	assert.True(t, r.Resolves(config.Snapshot{}))
}

func TestMultipleKeysAreConjunctive(t *testing.T) {
	r := When(map[string]cty.Value{
		"mode":   cty.StringVal("fast"),
		"region": cty.StringVal("eu"),
	})

	assert.True(t, r.Resolves(config.Snapshot{
		"mode": cty.StringVal("fast"), "region": cty.StringVal("eu"),
	}))
	assert.False(t, r.Resolves(config.Snapshot{
		"mode": cty.StringVal("fast"), "region": cty.StringVal("us"),
	}))
}

func TestOptionalConfig(t *testing.T) {
	r := WhenIn(map[string][]cty.Value{"region": {cty.StringVal("eu")}})

	got := r.OptionalConfig()
	assert.Len(t, got, 1)
	assert.Contains(t, got, "region")
	assert.Equal(t, cty.NilVal, got["region"])
}

func TestZeroResolverNeverResolves(t *testing.T) {
	var r Resolver
	assert.False(t, r.Resolves(config.Snapshot{}))
}
