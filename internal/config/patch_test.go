package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/driver"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func TestPatchFromJSON(t *testing.T) {
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(`{"law":"coulomb","q1":-3,"centerOnSun":true}`), &p))

	out, err := p.Apply(driver.DefaultInputs())
	require.NoError(t, err)
	assert.Equal(t, physics.Coulomb, out.Params.Law)
	assert.Equal(t, -3.0, out.Params.Charge1)
	assert.Equal(t, 1.0, out.Params.Charge2, "absent fields are untouched")
	assert.True(t, out.CenterOnSun)
	assert.Equal(t, 1.0, out.Speed)
}

func TestPatchFromYAMLClamps(t *testing.T) {
	var p Patch
	require.NoError(t, yaml.Unmarshal([]byte("speed: 12\nzoom: 0.1\ncenter_on_sun: false\n"), &p))

	in := driver.DefaultInputs()
	in.CenterOnSun = true
	out, err := p.Apply(in)
	require.NoError(t, err)
	assert.Equal(t, MaxSpeed, out.Speed)
	assert.Equal(t, MinZoom, out.Zoom)
	assert.False(t, out.CenterOnSun)
}

func TestPatchUnknownLaw(t *testing.T) {
	law := "yukawa"
	gm := 2.0
	live := driver.NewLiveInputs(driver.DefaultInputs())

	err := Patch{Law: &law, GM: &gm}.ApplyTo(live)
	assert.ErrorIs(t, err, dynamo.ErrUnknownLaw)
	assert.Equal(t, driver.DefaultInputs(), live.Snapshot(), "failed patch changes nothing")
}

func TestPatchApplyTo(t *testing.T) {
	exp := 2.1
	law := "modified"
	live := driver.NewLiveInputs(driver.DefaultInputs())

	require.NoError(t, Patch{Law: &law, Exponent: &exp}.ApplyTo(live))
	got := live.Snapshot()
	assert.Equal(t, physics.ModifiedPower, got.Params.Law)
	assert.Equal(t, 2.1, got.Params.Exponent)
	assert.Equal(t, uint64(0), got.Epoch)

	assert.True(t, Patch{}.Empty())
	assert.False(t, Patch{Exponent: &exp}.Empty())
}
