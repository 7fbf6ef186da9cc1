package mapdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		payload := `[
			{"_id":"1","title":"Site A","category":"Water","latitude":40,"longitude":30,"updatedAt":"2025-03-14T11:00:00Z"},
			{"_id":"2","title":"No coords","category":"health"}
		]`

		records, err := ParseRecords([]byte(payload))

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "1", records[0].ID)
		require.NotNil(t, records[0].Latitude)
		assert.Equal(t, 40.0, *records[0].Latitude)
		require.NotNil(t, records[0].UpdatedAt)
		assert.True(t, records[0].UpdatedAt.Equal(time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC)))
		assert.Nil(t, records[1].Latitude)
		assert.Nil(t, records[1].UpdatedAt)
	})

	t.Run("data envelope", func(t *testing.T) {
		records, err := ParseRecords([]byte(`{"success":true,"data":[{"_id":"9","title":"X"}]}`))

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "9", records[0].ID)
	})

	t.Run("empty array", func(t *testing.T) {
		records, err := ParseRecords([]byte(`[]`))

		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed records do not spoil the payload", func(t *testing.T) {
		payload := `[
			{"_id":"good","title":"Site A","category":"water","latitude":40,"longitude":30,"updatedAt":"2025-03-14T11:00:00Z"},
			{"_id":"date-only","title":"Site B","category":"health","latitude":10,"longitude":10,"updatedAt":"2025-03-14"},
			{"_id":"bad-time","title":"Site C","category":"climate","latitude":20,"longitude":20,"updatedAt":"yesterday"},
			{"_id":"text-lat","title":"Site D","category":"water","latitude":"50","longitude":"60.5"},
			{"_id":"junk-lat","title":"Site E","category":"water","latitude":"north","longitude":true},
			{"_id":7,"title":["not","text"],"alert":"yes"},
			"not an object",
			null
		]`

		records, err := ParseRecords([]byte(payload))

		require.NoError(t, err)
		require.Len(t, records, 6)

		assert.Equal(t, "good", records[0].ID)
		require.NotNil(t, records[0].UpdatedAt)

		require.NotNil(t, records[1].UpdatedAt)
		assert.True(t, records[1].UpdatedAt.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)))

		assert.Nil(t, records[2].UpdatedAt)
		require.NotNil(t, records[2].Latitude)

		require.NotNil(t, records[3].Latitude)
		assert.Equal(t, 50.0, *records[3].Latitude)
		assert.Equal(t, 60.5, *records[3].Longitude)

		assert.Nil(t, records[4].Latitude)
		assert.Nil(t, records[4].Longitude)

		assert.Equal(t, "7", records[5].ID)
		assert.Empty(t, records[5].Title)
		assert.False(t, records[5].Alert)
	})

	t.Run("malformed records flow through normalization", func(t *testing.T) {
		payload := `[
			{"_id":"1","title":"Kept","category":"water","latitude":40,"longitude":30,"updatedAt":"2025-03-14T11:00:00Z"},
			{"_id":"2","title":"Dropped","category":"water","latitude":"n/a","longitude":30}
		]`

		records, err := ParseRecords([]byte(payload))
		require.NoError(t, err)

		points := Normalize(records, testNow)
		require.Len(t, points, 1)
		assert.Equal(t, "Kept", points[0].Name)
	})

	t.Run("invalid payloads", func(t *testing.T) {
		payloads := []string{
			``,
			`   `,
			`"records"`,
			`42`,
			`{"data":{"_id":"1"}}`,
			`{"items":[]}`,
			`[{"_id":"1"`,
		}

		for _, payload := range payloads {
			_, err := ParseRecords([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalidInput, payload)
		}
	})
}
