package cctray_http

import (
	"testing"
	"time"

	"github.com/ccwatch/ccwatch/internal/domain"
	"github.com/ccwatch/ccwatch/internal/infrastructure/feedhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const connectfourFeed = `<Projects>
  <Project activity='Sleeping' lastBuildLabel='build.888' lastBuildStatus='Success'
           lastBuildTime='2024-02-11T23:19:26+01:00' name='connectfour'/>
</Projects>`

func TestParseProjects_SingleProject(t *testing.T) {
	projects, err := ParseProjects([]byte(connectfourFeed))
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, "connectfour", p.Name)

	s := p.Status()
	assert.Equal(t, domain.ActivitySleeping, s.Activity)
	require.NotNil(t, s.LastBuild)
	assert.Equal(t, domain.ResultSuccess, s.LastBuild.Result)
	assert.Equal(t, "build.888", s.LastBuild.Label)
	want := time.Date(2024, 2, 11, 23, 19, 26, 0, time.FixedZone("", 3600))
	assert.True(t, s.LastBuild.Timestamp.Equal(want))
	assert.Nil(t, s.CurrentBuild)
}

func TestParseProjects_EmptyDocumentIsNotAnError(t *testing.T) {
	projects, err := ParseProjects([]byte(`<Projects></Projects>`))
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Len(t, projects, 0)
}

func TestParseProjects_MalformedDocument(t *testing.T) {
	_, err := ParseProjects([]byte(`<Projects><Project name='x'`))
	assert.ErrorIs(t, err, feedhttp.ErrMalformedDocument)
}

func TestParseProjects_NotXMLAtAll(t *testing.T) {
	_, err := ParseProjects([]byte(`{"not": "xml"}`))
	assert.ErrorIs(t, err, feedhttp.ErrMalformedDocument)
}

func TestStatus_BuildingProjectGetsCurrentBuild(t *testing.T) {
	p := Project{
		Name:                  "deploy",
		Activity:              "Building",
		LastBuildStatus:       "Failure",
		LastBuildLabel:        "17",
		CurrentBuildStartTime: "2024-02-11T23:30:00+01:00",
	}

	s := p.Status()

	assert.Equal(t, domain.ActivityBuilding, s.Activity)
	require.NotNil(t, s.CurrentBuild)
	assert.Equal(t, domain.ResultUnknown, s.CurrentBuild.Result)
	assert.False(t, s.CurrentBuild.Timestamp.IsZero())
	require.NotNil(t, s.LastBuild)
	assert.Equal(t, domain.ResultFailure, s.LastBuild.Result)
}

func TestStatus_UnrecognizedActivityMapsToOther(t *testing.T) {
	s := Project{Name: "p", Activity: "Pondering"}.Status()
	assert.Equal(t, domain.ActivityOther, s.Activity)
	assert.Nil(t, s.CurrentBuild)
}

func TestStatus_CheckingModificationsCountsAsSleeping(t *testing.T) {
	s := Project{Name: "p", Activity: "CheckingModifications"}.Status()
	assert.Equal(t, domain.ActivitySleeping, s.Activity)
}

func TestStatus_MissingOptionalAttributesLeaveBuildFieldsEmpty(t *testing.T) {
	s := Project{Name: "p", Activity: "Sleeping", LastBuildStatus: "Unknown"}.Status()
	require.NotNil(t, s.LastBuild)
	assert.Equal(t, domain.ResultUnknown, s.LastBuild.Result)
	assert.Empty(t, s.LastBuild.Label)
	assert.True(t, s.LastBuild.Timestamp.IsZero())
}

func TestStatus_NoBuildAttributesMeansNeverBuilt(t *testing.T) {
	s := Project{Name: "p", Activity: "Sleeping"}.Status()
	assert.Nil(t, s.LastBuild)
	assert.False(t, s.HasEverBuilt())
}

func TestParseProjects_UnknownAttributesAreIgnored(t *testing.T) {
	feed := `<Projects><Project name='p' activity='Sleeping' lastBuildStatus='Success' randomVendorAttr='yes'/></Projects>`
	projects, err := ParseProjects([]byte(feed))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "p", projects[0].Name)
}

func TestParseServerTime_LocalTimestampWithoutZone(t *testing.T) {
	ts, ok := parseServerTime("2024-02-11T23:19:26")
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 23, ts.Hour())
}
