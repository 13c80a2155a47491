package io

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), "merger.ini")
	assert.Nil(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

const minimalConfig = `[Merger]
Profile1 = main.dat

[Mesh]
XMin = -100
XMax = 100
YMin = -100
YMax = 100
ZMin = -100
ZMax = 100

[Run]
StateFile = merger.db
TMax = 1.0
Dt = 0.01
`

func TestReadMergerConfigDefaults(t *testing.T) {
	wrap, err := ReadMergerConfig(writeConfig(t, minimalConfig))
	assert.Nil(t, err)

	con := wrap.Merger
	assert.Equal(t, 1, con.NumHalo)
	assert.True(t, con.MainClusterFixed)
	assert.Equal(t, 300.0, con.RScale)
	assert.Equal(t, 800.0, con.RCut)
	assert.Equal(t, 3, con.Subzones)
	assert.InDelta(t, 5.0/3.0, con.Gamma, 1e-15)
	assert.False(t, con.ValidMagFile())

	assert.Equal(t, 2, wrap.Mesh.RootBlocks)
	assert.Equal(t, 16, wrap.Mesh.BlockCells)
	assert.Equal(t, 0, wrap.Mesh.MaxLevel)
	assert.Equal(t, 10, wrap.Run.TraceEvery)
}

func TestReadMergerConfigTwoHalos(t *testing.T) {
	text := `[Merger]
Profile1 = main.dat
Profile2 = sub.dat
NumHalo = 2
XInit2 = 1000
YInit2 = 500
VxInit2 = -1000
VyInit2 = 0
MagFile = apot.dat

[Mesh]
XMin = -2000
XMax = 2000
YMin = -2000
YMax = 2000
ZMin = -2000
ZMax = 2000
MaxLevel = 4

[Run]
StateFile = merger.db
TMax = 5.0
Dt = 0.001
`
	wrap, err := ReadMergerConfig(writeConfig(t, text))
	assert.Nil(t, err)
	assert.Equal(t, 2, wrap.Merger.NumHalo)
	assert.Equal(t, 1000.0, wrap.Merger.XInit2)
	assert.True(t, wrap.Merger.ValidMagFile())
	assert.Equal(t, 4, wrap.Mesh.MaxLevel)
}

func TestReadMergerConfigRejectsBadInput(t *testing.T) {
	bad := []string{
		// Missing Profile1.
		`[Merger]
NumHalo = 1

[Mesh]
XMin = -100
XMax = 100
YMin = -100
YMax = 100
ZMin = -100
ZMax = 100

[Run]
StateFile = merger.db
TMax = 1.0
Dt = 0.01
`,
		// Two halos without a second profile.
		`[Merger]
Profile1 = main.dat
NumHalo = 2

[Mesh]
XMin = -100
XMax = 100
YMin = -100
YMax = 100
ZMin = -100
ZMax = 100

[Run]
StateFile = merger.db
TMax = 1.0
Dt = 0.01
`,
		// Inverted mesh bounds.
		`[Merger]
Profile1 = main.dat

[Mesh]
XMin = 100
XMax = -100
YMin = -100
YMax = 100
ZMin = -100
ZMax = 100

[Run]
StateFile = merger.db
TMax = 1.0
Dt = 0.01
`,
		// No state file.
		`[Merger]
Profile1 = main.dat

[Mesh]
XMin = -100
XMax = 100
YMin = -100
YMax = 100
ZMin = -100
ZMax = 100

[Run]
TMax = 1.0
Dt = 0.01
`,
	}

	for i, text := range bad {
		_, err := ReadMergerConfig(writeConfig(t, text))
		assert.NotNil(t, err, "config %d should have been rejected", i)
	}
}

func TestExampleMergerFileParses(t *testing.T) {
	wrap, err := ReadMergerConfig(writeConfig(t, ExampleMergerFile))
	assert.Nil(t, err)
	assert.Equal(t, 2, wrap.Merger.NumHalo)
	assert.Equal(t, 16, wrap.Mesh.BlockCells)
}