package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/errors"
	"github.com/jddutz/nexus/pkg/observe"
)

type meter struct {
	component.Node
	observe.Properties
	Level observe.Value[float64]
}

func newMeter(name string) component.Component {
	m := &meter{}
	m.Init(m, name)
	m.Expose("level", observe.AnyValue(&m.Level))
	return m
}

type label struct {
	component.Node
	observe.Properties
	Text observe.Value[string]
	Size observe.Value[int]
}

func newLabel(name string) component.Component {
	l := &label{}
	l.Init(l, name)
	l.Expose("text", observe.AnyValue(&l.Text))
	l.Expose("size", observe.AnyValue(&l.Size))
	return l
}

func testRegistry() *Registry {
	r := NewRegistry()
	r.Register("hud.Meter", newMeter)
	r.Register("hud.Label", newLabel)
	return r
}

const sceneYAML = `
version: 1.0.0
components:
  - type: hud.Meter
    name: Fuel
    properties:
      level: 75
    children:
      - type: hud.Label
        name: FuelLabel
        properties:
          text: "starting"
          size: 14
        bindings:
          - source: level
            target: text
            lookup: parent
            converter: "format:Fuel: %.0f%%"
`

func TestParse(t *testing.T) {
	tpl, err := Parse([]byte(sceneYAML))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", tpl.Version)
	require.Len(t, tpl.Components, 1)

	root := tpl.Components[0]
	assert.Equal(t, "hud.Meter", root.Type)
	assert.Equal(t, "Fuel", root.Name)
	require.Len(t, root.Children, 1)

	child := root.Children[0]
	assert.Equal(t, "FuelLabel", child.Name)
	assert.Equal(t, map[string]any{"text": "starting", "size": 14}, child.Properties)
	require.Len(t, child.Bindings, 1)
	assert.Equal(t, "level", child.Bindings[0].Source)
	assert.Equal(t, "format:Fuel: %.0f%%", child.Bindings[0].Converter)
}

func TestParseVersionGate(t *testing.T) {
	cases := []struct {
		version string
		wantErr string
	}{
		{"1.0.0", ""},
		{"v1.0.0", ""},
		{"1.2.0", ""},
		{"1", ""},
		{"", "no version"},
		{"banana", "not valid semver"},
		{"2.0.0", "outside the supported v1 format line"},
		{"0.9.0", "outside the supported v1 format line"},
		{"1.3.0", "newer than the supported format"},
	}
	for _, tc := range cases {
		t.Run("version_"+tc.version, func(t *testing.T) {
			yaml := "version: \"" + tc.version + "\"\ncomponents:\n  - type: hud.Meter\n"
			if tc.version == "" {
				yaml = "components:\n  - type: hud.Meter\n"
			}
			_, err := Parse([]byte(yaml))
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestParseRejectsBadSchemas(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"malformed", "version: [1.0.0", "failed to parse"},
		{"no components", "version: 1.0.0\ncomponents: []\n", "declares no components"},
		{"missing type", "version: 1.0.0\ncomponents:\n  - name: X\n", "has no type"},
		{"binding without target",
			"version: 1.0.0\ncomponents:\n  - type: hud.Label\n    bindings:\n      - source: level\n",
			"without source or target"},
		{"bad nested child",
			"version: 1.0.0\ncomponents:\n  - type: hud.Meter\n    children:\n      - name: Orphan\n",
			"has no type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			var terr *errors.Error
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, errors.KindTemplate, terr.Kind)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sceneYAML), 0o644))

	tpl, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, tpl.Components, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read template")
}

func TestRegistryUnknownTypeSuggestion(t *testing.T) {
	reg := testRegistry()

	_, err := reg.New("hud.Lable", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "hud.Label"`)

	_, err = reg.New("completely.Wrong", "x")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestRegistryNames(t *testing.T) {
	assert.Equal(t, []string{"hud.Label", "hud.Meter"}, testRegistry().Names())
}

func TestRegistryRejectsNilFactory(t *testing.T) {
	assert.Panics(t, func() { NewRegistry().Register("x", nil) })
	assert.Panics(t, func() { NewRegistry().Register("", newLabel) })
}

func TestRegistryNilFactoryResult(t *testing.T) {
	reg := NewRegistry()
	reg.Register("broken", func(name string) component.Component { return nil })

	_, err := reg.New("broken", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned nil")
}

func TestInstantiate(t *testing.T) {
	tpl, err := Parse([]byte(sceneYAML))
	require.NoError(t, err)

	root, err := Instantiate(tpl, testRegistry())
	require.NoError(t, err)

	m, ok := root.(*meter)
	require.True(t, ok, "root should be a meter, got %T", root)
	assert.Equal(t, "Fuel", m.Name())
	assert.Equal(t, 75.0, m.Level.Get(), "initial property should be coerced to float")

	require.Len(t, root.Children(), 1)
	l := root.Children()[0].(*label)
	assert.Equal(t, "FuelLabel", l.Name())
	assert.Equal(t, "starting", l.Text.Get())
	assert.Equal(t, 14, l.Size.Get())
	assert.Equal(t, 1, l.BindingCount())
}

func TestInstantiateActivatesBindings(t *testing.T) {
	tpl, err := Parse([]byte(sceneYAML))
	require.NoError(t, err)

	root, err := Instantiate(tpl, testRegistry())
	require.NoError(t, err)

	root.Load()
	root.Activate()

	m := root.(*meter)
	l := root.Children()[0].(*label)

	assert.Equal(t, "Fuel: 75%", l.Text.Get(), "initial sync should run at activation")

	m.Level.Set(30)
	assert.Equal(t, "Fuel: 30%", l.Text.Get())
}

func TestInstantiateDefaultsNameToType(t *testing.T) {
	tpl, err := Parse([]byte("version: 1.0.0\ncomponents:\n  - type: hud.Meter\n"))
	require.NoError(t, err)

	root, err := Instantiate(tpl, testRegistry())
	require.NoError(t, err)
	assert.Equal(t, "hud.Meter", root.Name())
}

func TestInstantiateRejectsForests(t *testing.T) {
	yaml := "version: 1.0.0\ncomponents:\n  - type: hud.Meter\n  - type: hud.Label\n"
	tpl, err := Parse([]byte(yaml))
	require.NoError(t, err)

	_, err = Instantiate(tpl, testRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one root component")
}

func TestInstantiateUnknownProperty(t *testing.T) {
	yaml := "version: 1.0.0\ncomponents:\n  - type: hud.Label\n    properties:\n      txt: hello\n"
	tpl, err := Parse([]byte(yaml))
	require.NoError(t, err)

	_, err = Instantiate(tpl, testRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no property "txt"`)
	assert.Contains(t, err.Error(), `did you mean "text"`)
}

func TestInstantiateUncoercibleProperty(t *testing.T) {
	yaml := "version: 1.0.0\ncomponents:\n  - type: hud.Meter\n    properties:\n      level: not-a-number\n"
	tpl, err := Parse([]byte(yaml))
	require.NoError(t, err)

	_, err = Instantiate(tpl, testRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `property "level"`)
}

func TestInstantiateBadConverterSpec(t *testing.T) {
	yaml := strings.ReplaceAll(sceneYAML, "format:Fuel: %.0f%%", "formt:Fuel: %.0f%%")
	tpl, err := Parse([]byte(yaml))
	require.NoError(t, err)

	_, err = Instantiate(tpl, testRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown converter "formt"`)
}

func TestInstantiateUnknownType(t *testing.T) {
	tpl, err := Parse([]byte("version: 1.0.0\ncomponents:\n  - type: hud.Gauge\n"))
	require.NoError(t, err)

	_, err = Instantiate(tpl, testRegistry())
	require.Error(t, err)

	var terr *errors.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, errors.KindTemplate, terr.Kind)
}
