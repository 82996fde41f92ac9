package environment

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	apperrors "github.com/NocTempre/acks-caravan/internal/errors"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("environment.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// Document is the on-disk shape of an environment file. Entries are merged
// over the builtin tables by key unless Replace is set.
type Document struct {
	Replace bool                `yaml:"replace" json:"replace"`
	Terrain []TerrainDescriptor `yaml:"terrain" json:"terrain"`
	Roads   []RoadDescriptor    `yaml:"roads" json:"roads"`
	Weather []WeatherDescriptor `yaml:"weather" json:"weather"`
	Vessels []VesselDescriptor  `yaml:"vessels" json:"vessels"`
}

func Load(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse validates raw YAML against the environment schema and builds tables.
func Parse(raw []byte) (*Tables, error) {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfig, "environment yaml", err)
	}
	if generic == nil {
		generic = map[string]any{}
	}
	// Round-trip through JSON so the validator sees JSON-native types.
	asJSON, err := json.Marshal(generic)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfig, "environment yaml", err)
	}
	var instance any
	dec := json.NewDecoder(bytes.NewReader(asJSON))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfig, "environment yaml", err)
	}
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("environment schema: %w", err)
	}
	if err := s.Validate(instance); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfig, "environment schema", err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidConfig, "environment yaml", err)
	}
	return doc.Tables()
}

func (d Document) Tables() (*Tables, error) {
	if d.Replace {
		return NewTables(d.Terrain, d.Roads, d.Weather, d.Vessels)
	}
	return NewTables(
		mergeByKey(BuiltinTerrain(), d.Terrain, func(t TerrainDescriptor) string { return t.Key }),
		mergeByKey(BuiltinRoads(), d.Roads, func(r RoadDescriptor) string { return r.Key }),
		mergeByKey(BuiltinWeather(), d.Weather, func(w WeatherDescriptor) string { return w.Key }),
		mergeByKey(BuiltinVessels(), d.Vessels, func(v VesselDescriptor) string { return v.Key }),
	)
}

func mergeByKey[T any](base, overlay []T, key func(T) string) []T {
	out := make([]T, 0, len(base)+len(overlay))
	index := make(map[string]int, len(base)+len(overlay))
	for _, item := range append(base, overlay...) {
		k := normaliseKey(key(item))
		if i, ok := index[k]; ok {
			out[i] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}
