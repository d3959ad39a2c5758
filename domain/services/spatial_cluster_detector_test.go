package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpatialClusterDetector_CompactBoxIsOneRegion(t *testing.T) {
	// Arrange: 5 positions all within a 10x10 box
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "a"),
		newTestEvent(t, 2, 3, "b"),
		newTestEvent(t, 5, 5, "c"),
		newTestEvent(t, 7, 1, "d"),
		newTestEvent(t, 10, 10, "e"),
	}
	detector := NewSpatialClusterDetector(nil)

	// Act
	regions := detector.Detect(events)

	// Assert
	require.Len(t, regions, 1)
	assert.Equal(t, 5, regions[0].EventCount)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, regions[0].OwnerIDs)
}

func TestSpatialClusterDetector_GridBinsSpreadPositions(t *testing.T) {
	// Two tight groups in opposite corners of a 900x900 box, plus a loner
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "a"),
		newTestEvent(t, 10, 10, "b"),
		newTestEvent(t, 20, 5, "c"),
		newTestEvent(t, 890, 890, "d"),
		newTestEvent(t, 900, 900, "e"),
		newTestEvent(t, 450, 10, "loner"),
	}
	detector := NewSpatialClusterDetector(nil)

	regions := detector.Detect(events)

	require.Len(t, regions, 2)
	// Regions come back in row-major cell order
	assert.Equal(t, 0, regions[0].CellX)
	assert.Equal(t, 0, regions[0].CellY)
	assert.Equal(t, 3, regions[0].EventCount)
	assert.Equal(t, 2, regions[1].CellX)
	assert.Equal(t, 2, regions[1].CellY)
	assert.Equal(t, 2, regions[1].EventCount)
}

func TestSpatialClusterDetector_SparseCellsDropped(t *testing.T) {
	// Every position lands in its own cell, so nothing is reported
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "a"),
		newTestEvent(t, 600, 0, "b"),
		newTestEvent(t, 0, 600, "c"),
	}
	detector := NewSpatialClusterDetector(nil)

	regions := detector.Detect(events)

	assert.Empty(t, regions)
}

func TestSpatialClusterDetector_StackedEventsAreNotARegion(t *testing.T) {
	// Two events at the exact same coordinate are one distinct position, so
	// their cell is not reported
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "a"),
		newTestEvent(t, 0, 0, "b"),
		newTestEvent(t, 900, 900, "c"),
	}
	detector := NewSpatialClusterDetector(nil)

	regions := detector.Detect(events)

	assert.Empty(t, regions)
}

func TestSpatialClusterDetector_EventCountIncludesStackedEvents(t *testing.T) {
	// A cell qualifying on two distinct positions still counts all of its
	// events, repeats included
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "a"),
		newTestEvent(t, 0, 0, "b"),
		newTestEvent(t, 10, 10, "c"),
		newTestEvent(t, 900, 900, "d"),
	}
	detector := NewSpatialClusterDetector(nil)

	regions := detector.Detect(events)

	require.Len(t, regions, 1)
	assert.Equal(t, 0, regions[0].CellX)
	assert.Equal(t, 0, regions[0].CellY)
	assert.Equal(t, 3, regions[0].EventCount)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, regions[0].OwnerIDs)
}

func TestSpatialClusterDetector_MaxEdgePositionStaysInGrid(t *testing.T) {
	// The position at the bounding box corner must land in the last cell,
	// not an out-of-range one
	events := []PositionEvent{
		newTestEvent(t, 990, 990, "a"),
		newTestEvent(t, 1000, 1000, "b"),
		newTestEvent(t, 0, 0, "c"),
		newTestEvent(t, 5, 5, "d"),
	}
	detector := NewSpatialClusterDetector(nil)

	regions := detector.Detect(events)

	require.Len(t, regions, 2)
	for _, region := range regions {
		assert.Less(t, region.CellX, 3)
		assert.Less(t, region.CellY, 3)
	}
}

func TestSpatialClusterDetector_DistinctOwnersDeduplicated(t *testing.T) {
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "same"),
		newTestEvent(t, 1, 1, "same"),
		newTestEvent(t, 2, 2, "other"),
	}
	detector := NewSpatialClusterDetector(nil)

	regions := detector.Detect(events)

	require.Len(t, regions, 1)
	assert.Equal(t, 3, regions[0].EventCount)
	assert.Equal(t, []string{"other", "same"}, regions[0].OwnerIDs)
}

func TestSpatialClusterDetector_EmptyInput(t *testing.T) {
	detector := NewSpatialClusterDetector(nil)

	assert.Empty(t, detector.Detect(nil))
}

func TestSpatialClusterDetector_Idempotent(t *testing.T) {
	events := []PositionEvent{
		newTestEvent(t, 0, 0, "a"),
		newTestEvent(t, 600, 600, "b"),
		newTestEvent(t, 610, 610, "c"),
	}
	detector := NewSpatialClusterDetector(nil)

	assert.Equal(t, detector.Detect(events), detector.Detect(events))
}
