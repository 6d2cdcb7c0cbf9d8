package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave_CarriesConfirmedDates(t *testing.T) {
	path := writeFile(t, "plan.yaml", sampleYAML)
	ds, err := Load(path)
	require.NoError(t, err)

	code := ds.Records[0].Children[1]
	code.SetField("to", "2024-03-22 23:59:59")
	require.NoError(t, Save(path, ds))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from", again.StartKey)
	assert.Equal(t, "Build", again.Records[0].Name())
	assert.Equal(t, "2024-03-22 23:59:59", again.Records[0].Children[1].Field("to"))
	assert.Len(t, again.Sights, 2)
	assert.Len(t, again.Dependencies, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSave_JSONOmitsDefaultKeys(t *testing.T) {
	ds, err := Load(writeFile(t, "plan.json", sampleJSON))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "copy.json")
	require.NoError(t, Save(out, ds))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "start_key")
	assert.Contains(t, string(data), `"name": "Alpha"`)
	assert.Contains(t, string(data), `"owner": "kim"`)
}

func TestSave_MissingDirectory(t *testing.T) {
	ds := &Dataset{}
	assert.Error(t, Save(filepath.Join(t.TempDir(), "nope", "plan.json"), ds))
}
