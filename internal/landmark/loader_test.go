package landmark

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placefacts/internal/models"
)

const sampleDataset = `{
  "generated_at": "2025-01-01T00:00:00",
  "source": "Wikipedia API",
  "total_locations": 5,
  "locations": [
    {"id": 1, "name": "Red Square", "coordinates": {"lat": 55.7539, "lon": 37.6208},
     "description": "Main square of Moscow", "type": "square", "city": "Moscow", "country": "Russia",
     "wikipedia_url": "https://ru.wikipedia.org/wiki/Red_Square"},
    {"id": 2, "name": "Broken", "coordinates": {"lat": 123.0, "lon": 37.0}},
    {"id": 3, "name": "No Coordinates"},
    {"id": 4, "name": "", "coordinates": {"lat": 1, "lon": 1}},
    {"id": 5, "name": "Null Island Buoy", "coordinates": {"lat": 0, "lon": 0}, "type": "", "city": ""}
  ]
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "landmarks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FiltersInvalidRecords(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := Load(context.Background(), FileSource{Path: writeFile(t, sampleDataset)}, logger)

	require.Equal(t, 2, m.Len())

	got, ok := m.FindNearest(55.7540, 37.6210, DefaultMaxDistanceKm)
	require.True(t, ok)
	assert.Equal(t, models.ID("1"), got.Landmark.ID)
	assert.Equal(t, "square", got.Landmark.Type)

	buoy, ok := m.FindNearest(0, 0, 1)
	require.True(t, ok)
	assert.Equal(t, "Null Island Buoy", buoy.Landmark.Name)
	assert.Equal(t, models.DefaultType, buoy.Landmark.Type)
	assert.Equal(t, models.Unknown, buoy.Landmark.City)
	assert.Equal(t, models.Unknown, buoy.Landmark.Country)
}

func TestLoad_MissingFileYieldsEmptyDataset(t *testing.T) {
	logger, hook := test.NewNullLogger()
	m := Load(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "absent.json")}, logger)

	assert.Equal(t, 0, m.Len())
	_, ok := m.FindNearest(55.75, 37.62, DefaultMaxDistanceKm)
	assert.False(t, ok)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestLoad_MalformedFileYieldsEmptyDataset(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := Load(context.Background(), FileSource{Path: writeFile(t, `{"locations": [ {"id": 1,`)}, logger)
	assert.Equal(t, 0, m.Len())
}

func TestLoad_AcceptsStringAndNumberIDs(t *testing.T) {
	const dataset = `{"locations": [
	  {"id": "red-square", "name": "Red Square", "coordinates": {"lat": 55.7539, "lon": 37.6208}},
	  {"id": 2, "name": "Kremlin", "coordinates": {"lat": 55.7520, "lon": 37.6175}}
	]}`
	logger, _ := test.NewNullLogger()
	m := Load(context.Background(), FileSource{Path: writeFile(t, dataset)}, logger)

	require.Equal(t, 2, m.Len())
	got, ok := m.FindNearest(55.7539, 37.6208, DefaultMaxDistanceKm)
	require.True(t, ok)
	assert.Equal(t, models.ID("red-square"), got.Landmark.ID)
	got, ok = m.FindNearest(55.7520, 37.6175, DefaultMaxDistanceKm)
	require.True(t, ok)
	assert.Equal(t, models.IntID(2), got.Landmark.ID)
}

func TestLoad_DropsMalformedRecordOnly(t *testing.T) {
	const dataset = `{"locations": [
	  {"id": 1, "name": "Bad Latitude", "coordinates": {"lat": "x", "lon": 37.6}},
	  {"id": true, "name": "Bad ID", "coordinates": {"lat": 55.7, "lon": 37.6}},
	  {"id": 3, "name": "Kremlin", "coordinates": {"lat": 55.7520, "lon": 37.6175}}
	]}`
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	m := Load(context.Background(), FileSource{Path: writeFile(t, dataset)}, logger)

	require.Equal(t, 1, m.Len())
	got, ok := m.FindNearest(55.7520, 37.6175, DefaultMaxDistanceKm)
	require.True(t, ok)
	assert.Equal(t, "Kremlin", got.Landmark.Name)

	var skipped int
	var summary string
	for _, e := range hook.AllEntries() {
		if e.Message == "Skipping undecodable landmark" {
			skipped++
		}
		if strings.HasPrefix(e.Message, "Dropped") {
			summary = e.Message
		}
	}
	assert.Equal(t, 2, skipped)
	assert.Equal(t, "Dropped 2 invalid landmark records", summary)
}

func TestDecode_ReportsRecordErrors(t *testing.T) {
	landmarks, err := Decode(strings.NewReader(`{"locations": [{"id": 1, "name": "A", "coordinates": {"lat": 1, "lon": 1}}, {"name": 5}]}`))

	var rejected RecordErrors
	require.ErrorAs(t, err, &rejected)
	assert.Len(t, rejected, 1)
	assert.False(t, errors.Is(err, ErrDatasetLoad))
	require.Len(t, landmarks, 1)
	assert.Equal(t, "A", landmarks[0].Name)
}

func TestFileSource_WrapsErrDatasetLoad(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "absent.json")}.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatasetLoad))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecode_PreservesOrder(t *testing.T) {
	landmarks, err := Decode(strings.NewReader(sampleDataset))
	require.NoError(t, err)
	require.Len(t, landmarks, 5)
	for i, l := range landmarks {
		assert.Equal(t, models.IntID(i+1), l.ID)
	}
	assert.False(t, landmarks[2].Coordinates.Valid(), "missing coordinates must not decode as (0, 0)")
}

type fakeObjects struct {
	body string
	err  error
}

func (f fakeObjects) GetObject(_ context.Context, _, _ string) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestS3Source(t *testing.T) {
	logger, _ := test.NewNullLogger()

	src := S3Source{Store: fakeObjects{body: sampleDataset}, Bucket: "landmarks", Key: "datasets/latest.json"}
	assert.Equal(t, "s3://landmarks/datasets/latest.json", src.String())
	assert.Equal(t, 2, Load(context.Background(), src, logger).Len())

	failing := S3Source{Store: fakeObjects{err: errors.New("NoSuchKey")}, Bucket: "landmarks", Key: "missing.json"}
	assert.Equal(t, 0, Load(context.Background(), failing, logger).Len())
}

type fakeQuerier struct {
	rows []models.Landmark
	err  error
}

func (f fakeQuerier) QueryLandmarks(context.Context) ([]models.Landmark, error) {
	return f.rows, f.err
}

func TestDatabaseSource(t *testing.T) {
	logger, _ := test.NewNullLogger()

	rows := []models.Landmark{lm(1, "Colosseum", 41.8902, 12.4922), lm(2, "Nowhere", -91, 0)}
	assert.Equal(t, 1, Load(context.Background(), DatabaseSource{DB: fakeQuerier{rows: rows}}, logger).Len())

	_, err := DatabaseSource{DB: fakeQuerier{err: errors.New("connection refused")}}.Load(context.Background())
	assert.ErrorIs(t, err, ErrDatasetLoad)
}
