package sentinel2

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stcorp/muninn-sentinel2/pkg/extension"
	"github.com/stcorp/muninn-sentinel2/pkg/properties"
)

const eofXML = `<?xml version="1.0" encoding="UTF-8"?>
<Earth_Explorer_File>
  <Earth_Explorer_Header>
    <Fixed_Header>
      <Validity_Period>
        <Validity_Start>UTC=2019-03-07T00:00:00</Validity_Start>
        <Validity_Stop>UTC=2019-03-08T00:00:00</Validity_Stop>
      </Validity_Period>
      <Source>
        <System>POD</System>
        <Creator>OrbitPropagator</Creator>
        <Creator_Version>1.2</Creator_Version>
        <Creation_Date>UTC=2019-03-08T00:00:00</Creation_Date>
      </Source>
    </Fixed_Header>
  </Earth_Explorer_Header>
  <Data_Block type="xml"/>
</Earth_Explorer_File>
`

const hdrXML = `<?xml version="1.0" encoding="UTF-8"?>
<Earth_Explorer_Header>
  <Fixed_Header>
    <Validity_Period>
      <Validity_Start>UTC=2019-03-07T00:00:00</Validity_Start>
      <Validity_Stop>UTC=9999-99-99T99:99:99</Validity_Stop>
    </Validity_Period>
    <Source>
      <System>POD</System>
      <Creator>GNSS_Processor</Creator>
      <Creator_Version>2.0</Creator_Version>
      <Creation_Date>UTC=2019-03-08T00:00:00</Creation_Date>
    </Source>
  </Fixed_Header>
</Earth_Explorer_Header>
`

func TestEOFProduct_Identify(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{}, false)
	assert.True(t, p.Identify([]string{eofName}))
	assert.False(t, p.Identify([]string{eofName + ".zip"}))
	assert.False(t, p.Identify([]string{splitBase + ".HDR"}))

	zipped := newEOFProduct("AUX_POEORB", Config{Zipped: true}, false)
	assert.True(t, zipped.Identify([]string{eofName + ".zip"}))
	assert.False(t, zipped.Identify([]string{eofName}))
}

func TestEOFProduct_IdentifySplitPair(t *testing.T) {
	p := newEOFProduct("AUX_GNSSRD", Config{}, true)

	pair := []string{splitBase + ".DBL", splitBase + ".HDR"}
	assert.True(t, p.Identify(pair))
	assert.True(t, p.Identify([]string{pair[1], pair[0]}), "order must not matter")

	assert.False(t, p.Identify([]string{splitBase + ".HDR"}), "header alone")
	assert.False(t, p.Identify([]string{pair[0], pair[0]}), "two data files")

	other := "S2A_OPER_AUX_GNSSRD_POD__20190309T000000_V20190308T000000_99999999T999999"
	assert.False(t, p.Identify([]string{splitBase + ".DBL", other + ".HDR"}), "mismatched pair")

	tgz := newEOFProduct("AUX_GNSSRD", Config{Zipped: true}, true)
	assert.True(t, tgz.Identify([]string{splitBase + ".TGZ"}))
	assert.False(t, tgz.Identify(pair))
}

func TestEOFProduct_Name(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{}, false)
	name, err := p.Name([]string{eofName})
	require.NoError(t, err)
	want := "S2A_OPER_AUX_POEORB_POD__20190308T000000_V20190307T000000_20190308T000000"
	assert.Equal(t, want, name)

	zipped := newEOFProduct("AUX_POEORB", Config{Zipped: true}, false)
	name, err = zipped.Name([]string{eofName + ".zip"})
	require.NoError(t, err)
	assert.Equal(t, want, name)
}

func TestEOFProduct_NameSplitPair(t *testing.T) {
	p := newEOFProduct("AUX_GNSSRD", Config{}, true)

	name, err := p.Name([]string{splitBase + ".DBL", splitBase + ".HDR"})
	require.NoError(t, err)
	assert.Equal(t, splitBase, name)

	_, err = p.Name([]string{splitBase + ".HDR"})
	assert.ErrorIs(t, err, extension.ErrUnrecognizedProduct)
}

func TestEOFProduct_AnalyzeFilenameOnly(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{}, false)
	props, err := p.Analyze(context.Background(), []string{eofName}, extension.FilenameOnly())
	require.NoError(t, err)

	start, _ := props.Time(properties.CoreNamespace, properties.ValidityStart)
	assert.Equal(t, time.Date(2019, 3, 7, 0, 0, 0, 0, time.UTC), start)
	stop, _ := props.Time(properties.CoreNamespace, properties.ValidityStop)
	assert.Equal(t, time.Date(2019, 3, 8, 0, 0, 0, 0, time.UTC), stop)

	mission, _ := props.String(Name, PropMission)
	assert.Equal(t, "S2A", mission)
	facility, _ := props.String(Name, PropProcessingFacility)
	assert.Equal(t, "POD_", facility)
}

func TestEOFProduct_AnalyzeNeverExpires(t *testing.T) {
	p := newEOFProduct("AUX_GNSSRD", Config{}, true)
	pair := []string{splitBase + ".DBL", splitBase + ".HDR"}

	props, err := p.Analyze(context.Background(), pair, extension.FilenameOnly())
	require.NoError(t, err)

	stop, ok := props.Time(properties.CoreNamespace, properties.ValidityStop)
	require.True(t, ok)
	assert.Equal(t, properties.NeverExpires, stop)
}

func TestEOFProduct_AnalyzeEOFFile(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{}, false)
	dir := t.TempDir()
	path := filepath.Join(dir, eofName)
	require.NoError(t, writeFile(path, eofXML))

	props, err := p.Analyze(context.Background(), []string{path})
	require.NoError(t, err)

	start, _ := props.Time(properties.CoreNamespace, properties.ValidityStart)
	assert.Equal(t, time.Date(2019, 3, 7, 0, 0, 0, 0, time.UTC), start)
	facility, _ := props.String(Name, PropProcessingFacility)
	assert.Equal(t, "POD", facility, "header system overrides filename site centre")
	processor, _ := props.String(Name, PropProcessorName)
	assert.Equal(t, "OrbitPropagator", processor)
	version, _ := props.String(Name, PropProcessorVersion)
	assert.Equal(t, "1.2", version)
}

func TestEOFProduct_AnalyzeZippedEOF(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{Zipped: true}, false)
	zipPath := writeFlatZip(t, eofName+".zip", map[string]string{eofName: eofXML})

	props, err := p.Analyze(context.Background(), []string{zipPath})
	require.NoError(t, err)

	processor, _ := props.String(Name, PropProcessorName)
	assert.Equal(t, "OrbitPropagator", processor)
}

func TestEOFProduct_AnalyzeSplitPair(t *testing.T) {
	p := newEOFProduct("AUX_GNSSRD", Config{}, true)
	dir := t.TempDir()
	hdrPath := filepath.Join(dir, splitBase+".HDR")
	dblPath := filepath.Join(dir, splitBase+".DBL")
	require.NoError(t, writeFile(hdrPath, hdrXML))
	require.NoError(t, writeFile(dblPath, "binary payload"))

	props, err := p.Analyze(context.Background(), []string{dblPath, hdrPath})
	require.NoError(t, err)

	name, _ := props.String(properties.CoreNamespace, properties.ProductName)
	assert.Equal(t, splitBase, name)
	stop, _ := props.Time(properties.CoreNamespace, properties.ValidityStop)
	assert.Equal(t, properties.NeverExpires, stop)
	processor, _ := props.String(Name, PropProcessorName)
	assert.Equal(t, "GNSS_Processor", processor)
}

func TestEOFProduct_AnalyzeTGZ(t *testing.T) {
	p := newEOFProduct("AUX_GNSSRD", Config{Zipped: true}, true)
	tgzPath := writeProductTGZ(t, splitBase+".TGZ", map[string]string{
		splitBase + "/" + splitBase + ".HDR": hdrXML,
		splitBase + "/" + splitBase + ".DBL": "binary payload",
	})

	props, err := p.Analyze(context.Background(), []string{tgzPath})
	require.NoError(t, err)

	name, _ := props.String(properties.CoreNamespace, properties.ProductName)
	assert.Equal(t, splitBase, name)
	processor, _ := props.String(Name, PropProcessorName)
	assert.Equal(t, "GNSS_Processor", processor)
}

func TestEOFProduct_AnalyzeMissingHeader(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{Zipped: true}, false)
	zipPath := writeFlatZip(t, eofName+".zip", map[string]string{"unrelated.txt": "x"})

	_, err := p.Analyze(context.Background(), []string{zipPath})
	assert.ErrorIs(t, err, extension.ErrMetadataMissing)
}

func TestEOFProduct_UseEnclosingDirectory(t *testing.T) {
	assert.True(t, newEOFProduct("AUX_GNSSRD", Config{}, true).UseEnclosingDirectory())
	assert.False(t, newEOFProduct("AUX_GNSSRD", Config{Zipped: true}, true).UseEnclosingDirectory())
	assert.False(t, newEOFProduct("AUX_POEORB", Config{}, false).UseEnclosingDirectory())
}

func TestEOFProduct_ArchivePath(t *testing.T) {
	p := newEOFProduct("AUX_POEORB", Config{}, false)
	props, err := p.Analyze(context.Background(), []string{eofName}, extension.FilenameOnly())
	require.NoError(t, err)

	path, err := p.ArchivePath(props)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("S2A", "AUX_POEORB", "2019", "03", "07"), path)
}

func TestGIPPProduct_Identify(t *testing.T) {
	p := newGIPPProduct("GIP_ATMIMA", Config{})

	pair := []string{gippBase + ".DBL", gippBase + ".HDR"}
	assert.True(t, p.Identify(pair))
	assert.False(t, p.Identify([]string{gippBase + ".HDR"}))

	noBand := "S2A_OPER_GIP_ATMIMA_MPC__20150605T094744_V20150622T000000_21000101T000000"
	assert.False(t, p.Identify([]string{noBand + ".DBL", noBand + ".HDR"}))

	badBand := "S2A_OPER_GIP_ATMIMA_MPC__20150605T094744_V20150622T000000_21000101T000000_B99"
	assert.False(t, p.Identify([]string{badBand + ".DBL", badBand + ".HDR"}))
}

func TestGIPPProduct_Name(t *testing.T) {
	p := newGIPPProduct("GIP_ATMIMA", Config{})

	name, err := p.Name([]string{gippBase + ".DBL", gippBase + ".HDR"})
	require.NoError(t, err)
	assert.Equal(t, gippBase, name)
}

func TestIERSProduct_Identify(t *testing.T) {
	p := newIERSProduct("AUX_UT1UTC", Config{})
	assert.True(t, p.Identify([]string{iersName}))
	assert.False(t, p.Identify([]string{eofName}))

	zipped := newIERSProduct("AUX_UT1UTC", Config{Zipped: true})
	assert.True(t, zipped.Identify([]string{iersName + ".zip"}))
}

func TestIERSProduct_AnalyzeIsFilenameOnly(t *testing.T) {
	p := newIERSProduct("AUX_UT1UTC", Config{})
	dir := t.TempDir()
	path := filepath.Join(dir, iersName)
	require.NoError(t, writeFile(path, "plain text bulletin, not XML"))

	// The bulletin payload is plain text; analysis must never try to
	// decode it.
	props, err := p.Analyze(context.Background(), []string{path})
	require.NoError(t, err)

	mission, _ := props.String(Name, PropMission)
	assert.Equal(t, "S2", mission)
	stop, _ := props.Time(properties.CoreNamespace, properties.ValidityStop)
	assert.Equal(t, properties.NeverExpires, stop)
}
