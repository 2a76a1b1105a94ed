package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberwatch/fireline/internal/models"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const perimeterFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "id": "fire_caldor",
        "name": "Caldor",
        "year": 2021,
        "acres": 221835,
        "ignition": "2021-08-14T18:54:00Z",
        "containment": "2021-10-21T19:00:00Z"
      },
      "geometry": {
        "type": "Polygon",
        "coordinates": [
          [[-120.5, 38.5], [-120.4, 38.5], [-120.4, 38.6], [-120.5, 38.6], [-120.5, 38.5]],
          [[-120.45, 38.55], [-120.44, 38.55], [-120.44, 38.56], [-120.45, 38.55]]
        ]
      }
    },
    {
      "type": "Feature",
      "properties": {
        "name": "Complex",
        "year": 2020,
        "acres": 5000,
        "ignition": "not-a-timestamp",
        "containment": "2020-09-01T00:00:00Z"
      },
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[-121.0, 39.0], [-120.9, 39.0], [-120.9, 39.1], [-121.0, 39.0]]],
          [[[-121.2, 39.2], [-121.1, 39.2], [-121.1, 39.3], [-121.2, 39.2]]]
        ]
      }
    }
  ]
}`

func TestLoadFirePerimeters(t *testing.T) {
	path := writeFixture(t, "fires.geojson", perimeterFixture)

	records, err := LoadFirePerimeters(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	caldor := records[0]
	assert.Equal(t, "fire_caldor", caldor.ID)
	assert.Equal(t, "Caldor", caldor.Name)
	assert.Equal(t, 2021, caldor.Year)
	assert.InDelta(t, 221835, caldor.Acres, 1e-9)
	assert.Equal(t, time.Date(2021, 8, 14, 18, 54, 0, 0, time.UTC), caldor.Ignition)

	// Only the outer ring survives; the hole is dropped.
	require.Len(t, caldor.Polygons, 1)
	assert.Len(t, caldor.Polygons[0], 5)

	complexFire := records[1]
	assert.Equal(t, "fire_1", complexFire.ID, "missing id falls back to the feature index")
	assert.True(t, complexFire.Ignition.IsZero(), "bad timestamp decodes to zero time")
	assert.False(t, complexFire.Containment.IsZero())

	// One outer ring per multipolygon component.
	require.Len(t, complexFire.Polygons, 2)
}

func TestLoadFirePerimeters_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFirePerimeters(filepath.Join(t.TempDir(), "absent.geojson"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFixture(t, "broken.geojson", "{not json")
		_, err := LoadFirePerimeters(path)
		assert.Error(t, err)
	})

	t.Run("unsupported geometry", func(t *testing.T) {
		path := writeFixture(t, "point.geojson", `{
			"type": "FeatureCollection",
			"features": [{
				"type": "Feature",
				"properties": {"name": "Dot", "year": 2020, "acres": 1},
				"geometry": {"type": "Point", "coordinates": [-120, 38]}
			}]
		}`)
		_, err := LoadFirePerimeters(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported geometry")
	})
}

func TestLoadIAPRecords(t *testing.T) {
	path := writeFixture(t, "iaps.json", `[
		{
			"id": "iap_1",
			"incident_name": "River Complex",
			"date": "2020-08-20",
			"location": {"latitude": 40.1, "longitude": -122.9},
			"fuel_type": "chaparral",
			"acres": 1100,
			"wind_speed_ms": 10,
			"humidity_pct": 18,
			"sections": [
				{"type": "ICS-202", "content": "Monitor wind shifts.", "objectives": ["Protect structures"]}
			],
			"lessons": ["Stage early"]
		}
	]`)

	records, err := LoadIAPRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "iap_1", r.ID)
	assert.Equal(t, models.FuelChaparral, r.FuelType)
	assert.InDelta(t, 40.1, r.Location.Latitude, 1e-9)
	require.Len(t, r.Sections, 1)
	assert.Equal(t, models.SectionICS202, r.Sections[0].Type)
	assert.Equal(t, []string{"Stage early"}, r.Lessons)
}

func TestLoadIAPRecords_Errors(t *testing.T) {
	_, err := LoadIAPRecords(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := writeFixture(t, "broken.json", `{"not": "an array"}`)
	_, err = LoadIAPRecords(path)
	assert.Error(t, err)
}
